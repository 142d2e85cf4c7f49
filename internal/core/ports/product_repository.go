package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductRepository defines the read contract for the catalog. The importers
// resolve SKUs through it; catalog maintenance happens elsewhere.
type ProductRepository interface {
	// Get retrieves a product by its unique identifier, with its bill of
	// materials when the product is a package.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetBySKU retrieves a product by its normalized SKU, with its bill of
	// materials when the product is a package. Returns an ObjectNotFoundError
	// for SKUs missing from the catalog.
	GetBySKU(ctx context.Context, sku string) (*product.Product, error)
}
