// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The header and its lines are stored in two tables and
// always loaded together, so the aggregate is reconstructed whole.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order headers.
// Statuses are stored as their string names so reports and ad-hoc queries
// stay readable without a decoding table.
type OrderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID         string    `gorm:"index"`
	Channel           string
	Customer          string
	OrderDate         *time.Time
	MarketplaceStatus string
	Status            string `gorm:"index"`
	Active            bool   `gorm:"index"`
	SourceFile        string
}

// TableName specifies the database table name for order headers.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO represents the database structure for persisting order lines.
// Location references are nullable: a line may never get a suggestion, a
// pick, or a return.
type LineDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID `gorm:"type:uuid;index"`
	ProductID            uuid.UUID `gorm:"type:uuid;index"`
	SourceSKU            string
	Quantity             int
	Status               string
	SuggestedLocationID  *uuid.UUID `gorm:"type:uuid"`
	PickedFromLocationID *uuid.UUID `gorm:"type:uuid"`
	ReturnedToLocationID *uuid.UUID `gorm:"type:uuid"`
	ReturnNote           string
}

// TableName specifies the database table name for order lines.
func (LineDTO) TableName() string {
	return "order_lines"
}

// fromDomain converts an order aggregate to its database representation,
// header and lines together.
func fromDomain(aggregate *order.Order) (OrderDTO, []LineDTO) {
	header := OrderDTO{
		ID:                aggregate.ID().Bytes(),
		InvoiceID:         aggregate.InvoiceID(),
		Channel:           aggregate.Channel().String(),
		Customer:          aggregate.Customer(),
		OrderDate:         aggregate.OrderDate(),
		MarketplaceStatus: aggregate.MarketplaceStatus().String(),
		Status:            aggregate.Status().String(),
		Active:            aggregate.IsActive(),
		SourceFile:        aggregate.SourceFile(),
	}

	lines := make([]LineDTO, 0, len(aggregate.Lines()))
	for _, line := range aggregate.Lines() {
		lines = append(lines, LineDTO{
			ID:                   line.ID().Bytes(),
			OrderID:              aggregate.ID().Bytes(),
			ProductID:            line.ProductID().Bytes(),
			SourceSKU:            line.SourceSKU(),
			Quantity:             line.Quantity(),
			Status:               line.Status().String(),
			SuggestedLocationID:  uuidPtrFromDomain(line.SuggestedLocation()),
			PickedFromLocationID: uuidPtrFromDomain(line.PickedFrom()),
			ReturnedToLocationID: uuidPtrFromDomain(line.ReturnedTo()),
			ReturnNote:           line.ReturnNote(),
		})
	}

	return header, lines
}

// toDomain converts header and line DTOs back to an order aggregate using
// RestoreOrder, re-parsing the stored status strings.
func toDomain(dto OrderDTO, lineDTOs []LineDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(lineDTOs))
	for _, lineDTO := range lineDTOs {
		line, lineErr := lineToDomain(lineDTO)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(
		id,
		dto.InvoiceID,
		order.ParseChannel(dto.Channel),
		dto.Customer,
		dto.OrderDate,
		order.ParseMarketplaceStatus(dto.MarketplaceStatus),
		status,
		dto.Active,
		dto.SourceFile,
		lines,
	)
}

func lineToDomain(dto LineDTO) (*order.Line, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	suggested, err := uuidPtrToDomain(dto.SuggestedLocationID)
	if err != nil {
		return nil, err
	}

	pickedFrom, err := uuidPtrToDomain(dto.PickedFromLocationID)
	if err != nil {
		return nil, err
	}

	returnedTo, err := uuidPtrToDomain(dto.ReturnedToLocationID)
	if err != nil {
		return nil, err
	}

	return order.RestoreLine(
		id,
		productID,
		dto.SourceSKU,
		dto.Quantity,
		status,
		suggested,
		pickedFrom,
		returnedTo,
		dto.ReturnNote,
	)
}

func uuidPtrFromDomain(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func uuidPtrToDomain(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
