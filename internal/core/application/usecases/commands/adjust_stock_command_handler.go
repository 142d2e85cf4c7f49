package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"
)

// ErrPackageCarriesNoStock is returned when an adjustment names a package
// SKU. Packages exist only on paper; their components hold the stock.
var ErrPackageCarriesNoStock = errors.New("package SKU carries no physical stock")

// AdjustStockCommandHandler applies one stock adjustment: it resolves the SKU
// and location code, shifts the book count and writes the matching ledger
// movement, all in one transaction.
type AdjustStockCommandHandler struct {
	uowFactory StockUoWFactory
}

// NewAdjustStockCommandHandler creates a handler for stock adjustments.
// Requires a StockUoWFactory for transactional persistence.
func NewAdjustStockCommandHandler(uowFactory StockUoWFactory) AdjustStockCommandHandler {
	return AdjustStockCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the adjustment command. The book count may go negative;
// discrepancies surface in reports rather than blocking corrections.
func (h AdjustStockCommandHandler) Handle(ctx context.Context, cmd AdjustStockCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	adj := cmd.Adjustment()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.ProductRepository().GetBySKU(ctx, order.NormalizeSKU(adj.SKU))
	if err != nil {
		return fmt.Errorf("resolving SKU %s: %w", adj.SKU, err)
	}
	if p.IsPackage() {
		return fmt.Errorf("SKU %s: %w", adj.SKU, ErrPackageCarriesNoStock)
	}

	stocks := uow.StockRepository()
	location, err := stocks.GetLocationByCode(ctx, adj.LocationCode)
	if err != nil {
		return fmt.Errorf("resolving location %s: %w", adj.LocationCode, err)
	}

	if err = stocks.AdjustQuantity(ctx, p.ID(), location.ID(), adj.Delta); err != nil {
		return err
	}

	movement, err := h.buildMovement(p.ID(), location.ID(), adj, cmd.Actor())
	if err != nil {
		return err
	}
	if err = stocks.AppendMovement(ctx, movement); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// buildMovement expresses the signed delta as a ledger row: increases flow
// into the location, decreases flow out of it.
func (h AdjustStockCommandHandler) buildMovement(
	productID, locationID kernel.UUID,
	adj stock.Adjustment,
	actor string,
) (*stock.Movement, error) {
	var from, to *kernel.UUID
	qty := adj.Delta
	if qty > 0 {
		to = &locationID
	} else {
		qty = -qty
		from = &locationID
	}

	return stock.NewMovement(
		kernel.NewUUID(), productID, qty, stock.MovementTypeAdjustment,
		from, to, actor, adj.Note, time.Now(),
	)
}
