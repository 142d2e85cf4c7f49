package stockrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GORM stock repository.
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// GetLocationByCode retrieves a storage slot by its human-readable label.
func (r *GormStockRepository) GetLocationByCode(ctx context.Context, code string) (*stock.Location, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}

	var dto LocationDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("location", code)
		}
		return nil, err
	}

	return locationToDomain(dto)
}

// GetHoldings retrieves the allocator read model for one product: every
// stock cell holding it, joined with the location attributes the ranking
// needs. Ordered by location code so allocation is deterministic across
// equally ranked candidates.
func (r *GormStockRepository) GetHoldings(ctx context.Context, productID kernel.UUID) ([]stock.Holding, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT l.id, l.code, l.floor, l.purpose, s.quantity
		FROM stock_levels s
		JOIN locations l ON l.id = s.location_id
		WHERE s.product_id = ?
		ORDER BY l.code
	`, productID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holdings := make([]stock.Holding, 0)
	for rows.Next() {
		var id uuid.UUID
		var code, purposeName string
		var floor, quantity int

		if err = rows.Scan(&id, &code, &floor, &purposeName, &quantity); err != nil {
			return nil, err
		}

		locationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		purpose, purposeErr := stock.PurposeFromString(purposeName)
		if purposeErr != nil {
			return nil, purposeErr
		}

		holdings = append(holdings, stock.Holding{
			LocationID:   locationID,
			LocationCode: code,
			Floor:        floor,
			Purpose:      purpose,
			Quantity:     quantity,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return holdings, nil
}

// AdjustQuantity shifts the book count of a product at a location by delta.
// The upsert creates the stock cell on first touch and accumulates on
// conflict, so concurrent adjustments never lose an increment. Negative
// results are allowed.
func (r *GormStockRepository) AdjustQuantity(ctx context.Context, productID, locationID kernel.UUID, delta int) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	if err := locationID.Validate(); err != nil {
		return err
	}

	dto := StockLevelDTO{
		ProductID:  productID.Bytes(),
		LocationID: locationID.Bytes(),
		Quantity:   delta,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("stock_levels.quantity + excluded.quantity"),
		}),
	}).Create(&dto).Error
}

// AppendMovement writes one row to the movement ledger. The ledger is
// append-only; there is no update or delete path.
func (r *GormStockRepository) AppendMovement(ctx context.Context, movement *stock.Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}

	dto := movementFromDomain(movement)
	return r.db.WithContext(ctx).Create(&dto).Error
}
