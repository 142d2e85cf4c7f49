// Package filesource provides CSV parsers for staged import files. Columns
// are matched by header name rather than position, since marketplace export
// tools reorder columns between versions.
package filesource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// Order export columns. The returned_quantity column is optional; channels
// whose schema lacks it simply omit the header.
const (
	colInvoiceID        = "invoice_id"
	colChannel          = "channel"
	colStatus           = "status"
	colCustomer         = "customer"
	colOrderDate        = "order_date"
	colSKU              = "sku"
	colQuantity         = "quantity"
	colReturnedQuantity = "returned_quantity"
)

var orderDateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// CSVOrderSource parses staged marketplace order exports. One file row is
// one item; consecutive rows sharing an invoice id form one incoming order,
// and the per-invoice grouping preserves first-seen file order.
type CSVOrderSource struct{}

// NewCSVOrderSource creates a parser for staged order export files.
func NewCSVOrderSource() *CSVOrderSource {
	return &CSVOrderSource{}
}

// ParseOrders reads the whole file and returns one Incoming per invoice, in
// file order. Resume cursors count indexes into the returned slice.
func (s *CSVOrderSource) ParseOrders(ctx context.Context, filePath string) ([]order.Incoming, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open order export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read order export header: %w", err)
	}

	columns, err := indexColumns(header,
		colInvoiceID, colChannel, colStatus, colCustomer, colOrderDate, colSKU, colQuantity)
	if err != nil {
		return nil, err
	}
	returnedCol, hasReturnedCol := optionalColumn(header, colReturnedQuantity)

	incoming := make([]order.Incoming, 0)
	byInvoice := make(map[string]int)

	for row := 2; ; row++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read order export row %d: %w", row, readErr)
		}

		invoiceID := strings.TrimSpace(field(record, columns[colInvoiceID]))
		if invoiceID == "" {
			return nil, fmt.Errorf("order export row %d: invoice id is empty", row)
		}

		quantity, convErr := strconv.Atoi(strings.TrimSpace(field(record, columns[colQuantity])))
		if convErr != nil {
			return nil, fmt.Errorf("order export row %d: quantity: %w", row, convErr)
		}

		returnedQuantity := 0
		if hasReturnedCol {
			raw := strings.TrimSpace(field(record, returnedCol))
			if raw != "" {
				returnedQuantity, convErr = strconv.Atoi(raw)
				if convErr != nil {
					return nil, fmt.Errorf("order export row %d: returned quantity: %w", row, convErr)
				}
			}
		}

		item := order.IncomingItem{
			SKU:              field(record, columns[colSKU]),
			Quantity:         quantity,
			ReturnedQuantity: returnedQuantity,
		}

		if idx, seen := byInvoice[invoiceID]; seen {
			incoming[idx].Items = append(incoming[idx].Items, item)
			continue
		}

		orderDate, dateErr := parseOrderDate(field(record, columns[colOrderDate]))
		if dateErr != nil {
			return nil, fmt.Errorf("order export row %d: %w", row, dateErr)
		}

		incoming = append(incoming, order.Incoming{
			InvoiceID: invoiceID,
			Channel:   order.ParseChannel(field(record, columns[colChannel])),
			Customer:  strings.TrimSpace(field(record, columns[colCustomer])),
			OrderDate: orderDate,
			Status:    order.ParseMarketplaceStatus(field(record, columns[colStatus])),
			Items:     []order.IncomingItem{item},
		})
		byInvoice[invoiceID] = len(incoming) - 1
	}

	return incoming, nil
}

func parseOrderDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("order date %q is not in a supported layout", raw)
}

// indexColumns maps required header names onto their positions,
// case-insensitively.
func indexColumns(header []string, required ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	result := make(map[string]int, len(required))
	for _, name := range required {
		pos, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("import file is missing the %q column", name)
		}
		result[name] = pos
	}
	return result, nil
}

func optionalColumn(header []string, name string) (int, bool) {
	for i, candidate := range header {
		if strings.EqualFold(strings.TrimSpace(candidate), name) {
			return i, true
		}
	}
	return 0, false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
