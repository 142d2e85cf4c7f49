package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order header with its lines to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	header, lines := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&header).Error; err != nil {
		return err
	}
	if len(lines) > 0 {
		if err := r.db.WithContext(ctx).Create(&lines).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Lines are replaced
// wholesale: partial-return splits append lines and shrink others, so a
// delete-and-recreate keeps the stored set exactly in sync with the
// aggregate. Select("*") forces zero-valued columns, Active in particular,
// to be written.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	header, lines := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", header.ID).
		Select("*").
		Updates(&header)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.db.WithContext(ctx).Where("order_id = ?", header.ID).Delete(&LineDTO{}).Error; err != nil {
		return err
	}
	if len(lines) > 0 {
		if err := r.db.WithContext(ctx).Create(&lines).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its lines by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetActiveByInvoice retrieves the single active header for an invoice id.
// Superseded headers stay in the table as inactive rows and are never
// returned here.
func (r *GormOrderRepository) GetActiveByInvoice(ctx context.Context, invoiceID string) (*order.Order, error) {
	if invoiceID == "" {
		return nil, errs.NewValueIsRequiredError("invoiceID")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).First(&dto, "invoice_id = ? AND active", invoiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("invoiceID", invoiceID)
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

func (r *GormOrderRepository) load(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	var lines []LineDTO
	if err := r.db.WithContext(ctx).Find(&lines, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}
	return toDomain(dto, lines)
}
