package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
)

// StockRepository defines the persistence contract for locations, stock
// cells and the movement ledger.
type StockRepository interface {
	// GetLocationByCode retrieves a location by its human-readable slot label.
	GetLocationByCode(ctx context.Context, code string) (*stock.Location, error)

	// GetHoldings retrieves the allocator read model for one product: every
	// location holding it, joined with the location attributes.
	GetHoldings(ctx context.Context, productID kernel.UUID) ([]stock.Holding, error)

	// AdjustQuantity shifts the book count of a product at a location by
	// delta, creating the stock cell if it does not exist yet. The result
	// may go negative.
	AdjustQuantity(ctx context.Context, productID, locationID kernel.UUID, delta int) error

	// AppendMovement writes one row to the append-only movement ledger.
	AppendMovement(ctx context.Context, movement *stock.Movement) error
}
