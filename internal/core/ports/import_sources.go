package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"
)

// OrderSource parses a staged marketplace export file into normalized
// incoming orders. Implementations own format detection; the engine never
// sees channel-specific layouts.
type OrderSource interface {
	// ParseOrders reads the whole file and returns one Incoming per invoice,
	// in file order. Row indexes into the returned slice are what resume
	// cursors count.
	ParseOrders(ctx context.Context, filePath string) ([]order.Incoming, error)
}

// AdjustmentSource parses a staged stock adjustment file into normalized
// adjustment rows.
type AdjustmentSource interface {
	// ParseAdjustments reads the whole file and returns its rows in file order.
	ParseAdjustments(ctx context.Context, filePath string) ([]stock.Adjustment, error)
}
