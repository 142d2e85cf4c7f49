package productrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM.
// The catalog is read-only from the importers' point of view; rows are
// maintained through a separate administration path.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Get retrieves a product by ID, with its bill of materials when the product
// is a package.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetBySKU retrieves a product by its normalized SKU. Callers normalize the
// SKU before lookup; stored SKUs are already canonical.
func (r *GormProductRepository) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sku", sku)
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

func (r *GormProductRepository) load(ctx context.Context, dto ProductDTO) (*product.Product, error) {
	var components []ComponentDTO
	if dto.IsPackage {
		if err := r.db.WithContext(ctx).Find(&components, "package_id = ?", dto.ID).Error; err != nil {
			return nil, err
		}
	}
	return toDomain(dto, components)
}
