package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenOrdersQueryHandler reads open headers and their line totals
// directly from the database.
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates a handler for open order queries.
// Requires a GORM database connection for query execution.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

// Handle executes the query. Returns active Pending and Validated headers
// with aggregated line counts, oldest orders first so pickers work the
// backlog in arrival order.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOpenOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.invoice_id,
			o.channel,
			o.customer,
			o.order_date,
			o.status,
			COUNT(l.id),
			COALESCE(SUM(l.quantity), 0)
		FROM orders o
		LEFT JOIN order_lines l ON l.order_id = o.id
		WHERE o.active AND o.status IN (?, ?)
		GROUP BY o.id, o.invoice_id, o.channel, o.customer, o.order_date, o.status
		ORDER BY o.order_date NULLS LAST, o.invoice_id
	`, order.StatusPending.String(), order.StatusValidated.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenOrdersQueryResponse
		var id uuid.UUID
		var orderDate sql.NullTime

		err = rows.Scan(
			&id,
			&resp.InvoiceID,
			&resp.Channel,
			&resp.Customer,
			&orderDate,
			&resp.Status,
			&resp.LineCount,
			&resp.TotalQuantity,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		if orderDate.Valid {
			resp.OrderDate = &orderDate.Time
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
