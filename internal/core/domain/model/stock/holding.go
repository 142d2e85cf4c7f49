package stock

import "fulfillment/internal/core/domain/model/kernel"

// Holding is a read-model row the allocator ranks: how much of one product a
// location currently holds, joined with the location attributes the ranking
// needs. Built by the stock repository, never persisted as-is.
type Holding struct {
	LocationID   kernel.UUID
	LocationCode string
	Floor        int
	Purpose      Purpose
	Quantity     int
}

// IsLowFloor mirrors Location.IsLowFloor for the read model.
func (h Holding) IsLowFloor() bool {
	return h.Floor <= 2
}
