package services

import (
	"errors"

	"fulfillment/internal/core/domain/model/stock"
)

// ErrNoStockAvailable is returned when no location holds any stock of the
// requested product. The caller leaves the line without a suggestion rather
// than failing the order.
var ErrNoStockAvailable = errors.New("no stock available")

// StockAllocator is a domain service that suggests the best location to pick
// a product quantity from. The suggestion is advisory: pickers may deviate,
// and stock is only deducted when a pick is confirmed.
//
// Ranking, best first:
//  1. Display locations. Emptying the display area first keeps the
//     front of store sellable and consistent with what buyers saw.
//  2. Low-floor locations holding the full quantity, so the picker makes
//     one cheap trip.
//  3. Any location holding the full quantity.
//  4. Low-floor locations holding part of the quantity.
//  5. Everything else with stock.
//
// Within a rank the largest quantity wins, leaving small remnants alone.
// Quarantine locations are never suggested.
type StockAllocator struct{}

// NewStockAllocator creates a new StockAllocator instance.
func NewStockAllocator() StockAllocator {
	return StockAllocator{}
}

// SuggestLocation ranks the product's holdings and returns the best pick
// source for the needed quantity. Returns ErrNoStockAvailable when no
// eligible location holds stock.
func (a StockAllocator) SuggestLocation(holdings []stock.Holding, needed int) (*stock.Holding, error) {
	var (
		best     *stock.Holding
		bestRank int
	)

	for i := range holdings {
		h := holdings[i]
		if h.Quantity <= 0 || h.Purpose == stock.PurposeQuarantine {
			continue
		}

		rank := a.rank(h, needed)
		if best == nil || rank < bestRank || (rank == bestRank && h.Quantity > best.Quantity) {
			best = &holdings[i]
			bestRank = rank
		}
	}

	if best == nil {
		return nil, ErrNoStockAvailable
	}

	picked := *best
	return &picked, nil
}

func (a StockAllocator) rank(h stock.Holding, needed int) int {
	full := h.Quantity >= needed
	switch {
	case h.Purpose == stock.PurposeDisplay:
		return 1
	case h.IsLowFloor() && full:
		return 2
	case full:
		return 3
	case h.IsLowFloor():
		return 4
	default:
		return 5
	}
}
