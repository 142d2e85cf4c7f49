package order

import "time"

// Incoming is one normalized order as produced by the external file parser.
// It is the wire contract between format detection (out of scope here) and
// the reconciliation engine: whatever the marketplace export looked like,
// the parser reduces it to this shape.
type Incoming struct {
	InvoiceID string
	Channel   Channel
	Customer  string
	OrderDate *time.Time
	Status    MarketplaceStatus
	Items     []IncomingItem
}

// IncomingItem is one product quantity within an incoming order. SKU is the
// raw text as seen in the export and may name a package rather than a
// physical product. ReturnedQuantity is only meaningful on channels whose
// schema carries the column; see Channel.ReportsReturnedQuantity.
type IncomingItem struct {
	SKU              string
	Quantity         int
	ReturnedQuantity int
}

// IsReturnSignal reports whether the incoming order signals a return, either
// through the header status or through any item carrying a returned quantity.
// The item-level signal overrides a stale header-level status.
func (in Incoming) IsReturnSignal() bool {
	if in.Status.IsReturn() {
		return true
	}
	for _, item := range in.Items {
		if item.ReturnedQuantity > 0 {
			return true
		}
	}
	return false
}
