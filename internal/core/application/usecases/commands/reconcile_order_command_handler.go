package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ReconcileOutcome describes what reconciling one incoming order did.
type ReconcileOutcome int

const (
	// OutcomeCreated means a fresh header was created for a new invoice.
	OutcomeCreated ReconcileOutcome = iota + 1

	// OutcomeRevised means the previous header was superseded and a new
	// revision created.
	OutcomeRevised

	// OutcomeCancelled means the existing header was cancelled in place.
	OutcomeCancelled

	// OutcomeReturned means returns were registered on the existing header.
	OutcomeReturned

	// OutcomeRefreshed means only the stored marketplace status moved.
	OutcomeRefreshed

	// OutcomeUnchanged means the ingestion matched stored state exactly.
	OutcomeUnchanged
)

func (o ReconcileOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeRevised:
		return "revised"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeReturned:
		return "returned"
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// ReconcileResult reports the outcome of one reconciliation to the caller.
// ExcessReturn is the number of units the channel claimed returned beyond
// what the order holds; the import worker logs it for manual follow-up.
type ReconcileResult struct {
	InvoiceID    string
	Outcome      ReconcileOutcome
	ExcessReturn int
}

// expandedLine is one physical-product quantity derived from an incoming
// item. Package items contribute one expandedLine per component, all keeping
// the package SKU as source.
type expandedLine struct {
	productID kernel.UUID
	sourceSKU string
	quantity  int
}

// ReconcileOrderCommandHandler implements the reconciliation engine for a
// single incoming order: it expands package SKUs into components, decides how
// the ingestion relates to stored state and executes that decision inside one
// transaction.
//
// Execution rules:
//   - New invoices get a fresh header with advisory pick suggestions
//   - Content changes supersede the old header and create a revision
//   - Cancellations restock validated lines and write ledger movements
//   - Returns accumulate across deliveries, splitting lines on partial returns
//   - Return signals on never-picked orders are downgraded to cancellations
type ReconcileOrderCommandHandler struct {
	uowFactory ReconcileUoWFactory
	allocator  services.StockAllocator
	decider    services.ReconcileDecider
}

// NewReconcileOrderCommandHandler creates a handler for order reconciliation.
// Requires a ReconcileUoWFactory for transactional persistence.
func NewReconcileOrderCommandHandler(uowFactory ReconcileUoWFactory) ReconcileOrderCommandHandler {
	return ReconcileOrderCommandHandler{
		uowFactory: uowFactory,
		allocator:  services.NewStockAllocator(),
		decider:    services.NewReconcileDecider(),
	}
}

// Handle processes one incoming order inside its own transaction. Row-level
// problems, such as a SKU missing from the catalog, roll back only this
// invoice and surface as the returned error.
func (h ReconcileOrderCommandHandler) Handle(ctx context.Context, cmd ReconcileOrderCommand) (ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileResult{}, err
	}

	in := cmd.Incoming()
	result := ReconcileResult{InvoiceID: in.InvoiceID}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expanded, signature, targets, err := h.expand(ctx, uow.ProductRepository(), in)
	if err != nil {
		return result, err
	}

	existing, err := h.loadExisting(ctx, uow.OrderRepository(), in.InvoiceID)
	if err != nil {
		return result, err
	}

	switch h.decider.Decide(existing, in, signature) {
	case services.ActionCreateNew:
		result.Outcome, err = h.createNew(ctx, uow, existing, in, expanded, cmd.SourceFile())
	case services.ActionUpdateCancel:
		result.Outcome, err = h.cancel(ctx, uow, existing, in)
	case services.ActionUpdateReturn:
		result.Outcome, result.ExcessReturn, err = h.registerReturns(ctx, uow, existing, in, targets)
	case services.ActionUpdatePassthrough:
		result.Outcome, err = h.passthrough(ctx, uow, existing, in)
	}
	if err != nil {
		return result, err
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}

	return result, nil
}

// expand resolves every incoming item against the catalog and flattens
// package items into component quantities. It returns the expanded lines, the
// content signature (summed expanded quantity per normalized source SKU) and
// the return targets in the same units.
func (h ReconcileOrderCommandHandler) expand(
	ctx context.Context,
	products ports.ProductRepository,
	in order.Incoming,
) ([]expandedLine, map[string]int, map[string]int, error) {
	var lines []expandedLine
	signature := make(map[string]int, len(in.Items))
	targets := make(map[string]int)

	for _, item := range in.Items {
		sku := order.NormalizeSKU(item.SKU)
		if sku == "" || item.Quantity <= 0 {
			return nil, nil, nil, errs.NewValueIsInvalidError(
				fmt.Sprintf("invoice %s has an empty SKU or non-positive quantity", in.InvoiceID))
		}

		p, err := products.GetBySKU(ctx, sku)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invoice %s: resolving SKU %s: %w", in.InvoiceID, sku, err)
		}

		if p.IsPackage() {
			for _, comp := range p.Components() {
				qty := item.Quantity * comp.Ratio()
				lines = append(lines, expandedLine{productID: comp.ProductID(), sourceSKU: item.SKU, quantity: qty})
				signature[sku] += qty
				targets[sku] += item.ReturnedQuantity * comp.Ratio()
			}
			continue
		}

		lines = append(lines, expandedLine{productID: p.ID(), sourceSKU: item.SKU, quantity: item.Quantity})
		signature[sku] += item.Quantity
		targets[sku] += item.ReturnedQuantity
	}

	// Channels whose schema has no returned-quantity column can only signal a
	// return at header level, meaning everything came back. For channels that
	// do report the column the item values are authoritative, zeros included.
	if in.Status.IsReturn() && !in.Channel.ReportsReturnedQuantity() {
		targets = make(map[string]int, len(signature))
		for sku, qty := range signature {
			targets[sku] = qty
		}
	}

	return lines, signature, pruneZeroTargets(targets), nil
}

func pruneZeroTargets(targets map[string]int) map[string]int {
	for sku, qty := range targets {
		if qty <= 0 {
			delete(targets, sku)
		}
	}
	return targets
}

func (h ReconcileOrderCommandHandler) loadExisting(
	ctx context.Context,
	orders ports.OrderRepository,
	invoiceID string,
) (*order.Order, error) {
	existing, err := orders.GetActiveByInvoice(ctx, invoiceID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// createNew builds a fresh header for the invoice. When a previous active
// header exists its content differs, so it is superseded first and the new
// header becomes the live revision.
func (h ReconcileOrderCommandHandler) createNew(
	ctx context.Context,
	uow ReconcileUoW,
	existing *order.Order,
	in order.Incoming,
	expanded []expandedLine,
	sourceFile string,
) (ReconcileOutcome, error) {
	orders := uow.OrderRepository()

	outcome := OutcomeCreated
	if existing != nil {
		if err := existing.Supersede(); err != nil {
			return 0, err
		}
		if err := orders.Update(ctx, existing); err != nil {
			return 0, err
		}
		outcome = OutcomeRevised
	}

	initial := h.decider.InitialStatus(in)
	o, err := order.NewOrder(
		kernel.NewUUID(), in.InvoiceID, in.Channel, in.Customer,
		in.OrderDate, in.Status, initial, sourceFile,
	)
	if err != nil {
		return 0, err
	}

	lineStatus := order.StatusPending
	if initial == order.StatusCancel {
		lineStatus = order.StatusCancel
	}

	for _, el := range expanded {
		line, err := order.NewLine(kernel.NewUUID(), el.productID, el.sourceSKU, el.quantity, lineStatus)
		if err != nil {
			return 0, err
		}

		if lineStatus == order.StatusPending {
			if err = h.suggestLocation(ctx, uow.StockRepository(), line); err != nil {
				return 0, err
			}
		}

		if err = o.AddLine(line); err != nil {
			return 0, err
		}
	}

	if err = orders.Add(ctx, o); err != nil {
		return 0, err
	}

	return outcome, nil
}

// suggestLocation attaches an advisory pick location to a pending line.
// Having no stock anywhere is not an error: the line stays unsuggested and
// the picker resolves it manually.
func (h ReconcileOrderCommandHandler) suggestLocation(
	ctx context.Context,
	stocks ports.StockRepository,
	line *order.Line,
) error {
	holdings, err := stocks.GetHoldings(ctx, line.ProductID())
	if err != nil {
		return err
	}

	best, err := h.allocator.SuggestLocation(holdings, line.Quantity())
	if errors.Is(err, services.ErrNoStockAvailable) {
		return nil
	}
	if err != nil {
		return err
	}

	return line.SetSuggestedLocation(best.LocationID)
}

// cancel cancels the existing header in place. Validated lines already had
// stock deducted, so their quantities are restored to the locations they were
// picked from, each with a ledger movement.
func (h ReconcileOrderCommandHandler) cancel(
	ctx context.Context,
	uow ReconcileUoW,
	existing *order.Order,
	in order.Incoming,
) (ReconcileOutcome, error) {
	stocks := uow.StockRepository()

	for _, line := range existing.Lines() {
		if line.Status() != order.StatusValidated || line.PickedFrom() == nil {
			continue
		}

		pickedFrom := *line.PickedFrom()
		if err := stocks.AdjustQuantity(ctx, line.ProductID(), pickedFrom, line.Quantity()); err != nil {
			return 0, err
		}

		movement, err := stock.NewMovement(
			kernel.NewUUID(), line.ProductID(), line.Quantity(),
			stock.MovementTypeCancelRestock, nil, &pickedFrom,
			"reconciler", fmt.Sprintf("invoice %s cancelled", existing.InvoiceID()), time.Now(),
		)
		if err != nil {
			return 0, err
		}
		if err = stocks.AppendMovement(ctx, movement); err != nil {
			return 0, err
		}
	}

	if err := existing.MarkCancelled(in.Status); err != nil {
		return 0, err
	}

	if err := uow.OrderRepository().Update(ctx, existing); err != nil {
		return 0, err
	}

	return OutcomeCancelled, nil
}

// registerReturns synchronizes line-level return state with the channel's
// reported totals and marks the header Returned. Stock is not touched here:
// returned goods re-enter the warehouse through the return-confirmation flow
// once their condition is checked.
func (h ReconcileOrderCommandHandler) registerReturns(
	ctx context.Context,
	uow ReconcileUoW,
	existing *order.Order,
	in order.Incoming,
	targets map[string]int,
) (ReconcileOutcome, int, error) {
	existing.RegisterReturns(targets)

	excess := 0
	for sku, target := range targets {
		returned := 0
		for _, line := range existing.Lines() {
			if line.Status() == order.StatusReturned && order.NormalizeSKU(line.SourceSKU()) == sku {
				returned += line.Quantity()
			}
		}
		if target > returned {
			excess += target - returned
		}
	}

	if err := existing.MarkReturned(in.Status); err != nil {
		return 0, 0, err
	}

	if err := uow.OrderRepository().Update(ctx, existing); err != nil {
		return 0, 0, err
	}

	return OutcomeReturned, excess, nil
}

// passthrough refreshes the stored marketplace status when it moved and
// otherwise leaves the header untouched.
func (h ReconcileOrderCommandHandler) passthrough(
	ctx context.Context,
	uow ReconcileUoW,
	existing *order.Order,
	in order.Incoming,
) (ReconcileOutcome, error) {
	if !existing.SetMarketplaceStatus(in.Status) {
		return OutcomeUnchanged, nil
	}

	if err := uow.OrderRepository().Update(ctx, existing); err != nil {
		return 0, err
	}

	return OutcomeRefreshed, nil
}
