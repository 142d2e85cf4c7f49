package stock

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrStockLevelIsNotConstructed is returned when a StockLevel instance was not
// created through the NewStockLevel or RestoreStockLevel factory methods.
var ErrStockLevelIsNotConstructed = errors.New("StockLevel must be created via NewStockLevel or RestoreStockLevel constructor")

// StockLevel is one (product, location) stock cell. Quantity is allowed to go
// negative: picks are recorded as they happened in the real world even when
// the book count disagrees, and the discrepancy surfaces in reports instead
// of blocking fulfillment.
type StockLevel struct {
	productID  kernel.UUID
	locationID kernel.UUID
	quantity   int

	isConstructed bool
}

// NewStockLevel creates an empty stock cell for a product at a location.
func NewStockLevel(productID, locationID kernel.UUID) (*StockLevel, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if err := locationID.Validate(); err != nil {
		return nil, err
	}

	return &StockLevel{
		productID:     productID,
		locationID:    locationID,
		isConstructed: true,
	}, nil
}

// RestoreStockLevel reconstructs a stock cell from persistence.
func RestoreStockLevel(productID, locationID kernel.UUID, quantity int) (*StockLevel, error) {
	level, err := NewStockLevel(productID, locationID)
	if err != nil {
		return nil, err
	}
	level.quantity = quantity
	return level, nil
}

// Validate ensures the StockLevel instance was properly constructed.
func (s *StockLevel) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStockLevelIsNotConstructed
	}
	return nil
}

// ProductID returns the product this cell counts.
func (s *StockLevel) ProductID() kernel.UUID {
	return s.productID
}

// LocationID returns the location this cell sits at.
func (s *StockLevel) LocationID() kernel.UUID {
	return s.locationID
}

// Quantity returns the current book count, possibly negative.
func (s *StockLevel) Quantity() int {
	return s.quantity
}

// Apply shifts the book count by delta. Negative results are allowed.
func (s *StockLevel) Apply(delta int) {
	s.quantity += delta
}
