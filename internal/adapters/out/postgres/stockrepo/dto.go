// Package stockrepo provides data transfer objects and mapping functions for
// warehouse persistence: locations, per-location stock cells and the
// append-only movement ledger.
package stockrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// LocationDTO represents the database structure for persisting storage slots.
type LocationDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code    string    `gorm:"uniqueIndex"`
	Floor   int
	Purpose string
}

// TableName specifies the database table name for storage slots.
func (LocationDTO) TableName() string {
	return "locations"
}

// StockLevelDTO represents one (product, location) stock cell. The composite
// primary key is what the adjustment upsert conflicts on.
type StockLevelDTO struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	LocationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity   int
}

// TableName specifies the database table name for stock cells.
func (StockLevelDTO) TableName() string {
	return "stock_levels"
}

// MovementDTO represents one row of the movement ledger. Rows are insert-only.
type MovementDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID      uuid.UUID `gorm:"type:uuid;index"`
	Quantity       int
	MovementType   string
	FromLocationID *uuid.UUID `gorm:"type:uuid"`
	ToLocationID   *uuid.UUID `gorm:"type:uuid"`
	Actor          string
	Note           string
	OccurredAt     time.Time
}

// TableName specifies the database table name for ledger rows.
func (MovementDTO) TableName() string {
	return "stock_movements"
}

// locationToDomain converts a slot DTO back to a location entity.
func locationToDomain(dto LocationDTO) (*stock.Location, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	purpose, err := stock.PurposeFromString(dto.Purpose)
	if err != nil {
		return nil, err
	}

	return stock.NewLocation(id, dto.Code, dto.Floor, purpose)
}

// movementFromDomain converts a ledger entity to its database representation.
func movementFromDomain(movement *stock.Movement) MovementDTO {
	return MovementDTO{
		ID:             movement.ID().Bytes(),
		ProductID:      movement.ProductID().Bytes(),
		Quantity:       movement.Quantity(),
		MovementType:   movement.Type().String(),
		FromLocationID: uuidPtrFromDomain(movement.FromLocation()),
		ToLocationID:   uuidPtrFromDomain(movement.ToLocation()),
		Actor:          movement.Actor(),
		Note:           movement.Note(),
		OccurredAt:     movement.OccurredAt(),
	}
}

func uuidPtrFromDomain(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
