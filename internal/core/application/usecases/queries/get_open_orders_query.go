package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOpenOrdersQueryIsNotConstructed = errors.New(
	"GetOpenOrdersQuery must be created via NewGetOpenOrdersQuery constructor",
)

// GetOpenOrdersQuery retrieves all active headers still moving through the
// warehouse, for the picking dashboard.
type GetOpenOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOpenOrdersQuery creates a query for open orders.
// This is a parameterless query that fetches every active Pending or
// Validated header.
func NewGetOpenOrdersQuery() GetOpenOrdersQuery {
	return GetOpenOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOpenOrdersQueryIsNotConstructed if validation fails.
func (q GetOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrdersQueryIsNotConstructed)
}

// GetOpenOrdersQueryResponse is one open header with its line totals.
type GetOpenOrdersQueryResponse struct {
	ID            kernel.UUID
	InvoiceID     string
	Channel       string
	Customer      string
	OrderDate     *time.Time
	Status        string
	LineCount     int
	TotalQuantity int
}
