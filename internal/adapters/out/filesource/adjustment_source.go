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

	"fulfillment/internal/core/domain/model/stock"
)

// Adjustment file columns.
const (
	colLocationCode = "location_code"
	colDelta        = "delta"
	colNote         = "note"
)

// CSVAdjustmentSource parses staged stock adjustment files. One row is one
// signed delta for a SKU at a location.
type CSVAdjustmentSource struct{}

// NewCSVAdjustmentSource creates a parser for staged adjustment files.
func NewCSVAdjustmentSource() *CSVAdjustmentSource {
	return &CSVAdjustmentSource{}
}

// ParseAdjustments reads the whole file and returns its rows in file order.
func (s *CSVAdjustmentSource) ParseAdjustments(ctx context.Context, filePath string) ([]stock.Adjustment, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open adjustment file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read adjustment file header: %w", err)
	}

	columns, err := indexColumns(header, colSKU, colLocationCode, colDelta)
	if err != nil {
		return nil, err
	}
	noteCol, hasNoteCol := optionalColumn(header, colNote)

	adjustments := make([]stock.Adjustment, 0)
	for row := 2; ; row++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read adjustment file row %d: %w", row, readErr)
		}

		delta, convErr := strconv.Atoi(strings.TrimSpace(field(record, columns[colDelta])))
		if convErr != nil {
			return nil, fmt.Errorf("adjustment file row %d: delta: %w", row, convErr)
		}

		note := ""
		if hasNoteCol {
			note = strings.TrimSpace(field(record, noteCol))
		}

		adjustments = append(adjustments, stock.Adjustment{
			SKU:          field(record, columns[colSKU]),
			LocationCode: strings.TrimSpace(field(record, columns[colLocationCode])),
			Delta:        delta,
			Note:         note,
		})
	}

	return adjustments, nil
}
