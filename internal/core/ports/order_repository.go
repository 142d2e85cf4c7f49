// Package ports defines repository and gateway interfaces for the fulfillment
// domain. These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Headers are stored together with their lines; loading an order always
// loads its full line set.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, including
	// lines appended by partial-return splits.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByInvoice retrieves the single active header for an invoice
	// id, or an ObjectNotFoundError when the invoice was never seen or all
	// its headers were superseded.
	GetActiveByInvoice(ctx context.Context, invoiceID string) (*order.Order, error)
}
