package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrAdjustStockCommandIsNotConstructed = errors.New(
		"AdjustStockCommand must be created via NewAdjustStockCommand constructor",
	)
	ErrSKUIsRequired          = errors.New("sku is required")
	ErrLocationCodeIsRequired = errors.New("location code is required")
	ErrDeltaIsZero            = errors.New("delta must not be zero")
	ErrActorIsRequired        = errors.New("actor is required")
)

// AdjustStockCommand represents a request to shift the book count of one SKU
// at one location by a signed delta. Issued per row of a stock adjustment
// import and by manual corrections.
type AdjustStockCommand struct { //nolint:recvcheck //using for validation
	adjustment stock.Adjustment
	actor      string

	guard guard.ConstructorGuard
}

// NewAdjustStockCommand creates a command to apply one stock adjustment.
// Validates that the SKU and location code are present, the delta is nonzero
// and the acting party is named for the ledger.
func NewAdjustStockCommand(adjustment stock.Adjustment, actor string) (AdjustStockCommand, error) {
	cmd := AdjustStockCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAdjustment(adjustment),
		cmd.setActor(actor),
	); err != nil {
		return AdjustStockCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdjustStockCommandIsNotConstructed if validation fails.
func (c AdjustStockCommand) Validate() error {
	return c.guard.Validate(ErrAdjustStockCommandIsNotConstructed)
}

// Adjustment returns the normalized adjustment row.
func (c AdjustStockCommand) Adjustment() stock.Adjustment {
	return c.adjustment
}

// Actor returns who requested the adjustment.
func (c AdjustStockCommand) Actor() string {
	return c.actor
}

func (c *AdjustStockCommand) setAdjustment(adjustment stock.Adjustment) error {
	if adjustment.SKU == "" {
		return ErrSKUIsRequired
	}
	if adjustment.LocationCode == "" {
		return ErrLocationCodeIsRequired
	}
	if adjustment.Delta == 0 {
		return ErrDeltaIsZero
	}

	c.adjustment = adjustment
	return nil
}

func (c *AdjustStockCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
