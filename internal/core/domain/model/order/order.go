package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order represents one marketplace invoice's fulfillment record. It is the
// aggregate root managing the header lifecycle and its lines.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty invoice id
//   - The invoice id is unique among active headers; superseded headers stay
//     in storage as inactive Obsolete rows
//   - Header status transitions follow the fulfillment state machine
//   - Line quantity per source SKU is conserved under partial-return splits
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	// id is the unique identifier for the header row
	id kernel.UUID

	// invoiceID is the marketplace invoice/bill number, the natural key
	invoiceID string

	// channel is the originating marketplace
	channel Channel

	// customer is the buyer name as exported, may be empty
	customer string

	// orderDate is the channel-reported order timestamp, nil when absent
	orderDate *time.Time

	// mpStatus is the last channel-reported status, normalized
	mpStatus MarketplaceStatus

	// status is the internal fulfillment status
	status Status

	// active is false once a revision superseded this header
	active bool

	// sourceFile is the export filename this header was last fed from
	sourceFile string

	lines []*Line

	isConstructed bool
}

// NewOrder creates a new header on first sighting of an invoice id.
// The initial status must be Pending or Cancel; Returned is never a valid
// birth status because no physical pick has happened yet (callers enforce
// the gatekeeper and pass Cancel instead).
func NewOrder(
	id kernel.UUID,
	invoiceID string,
	channel Channel,
	customer string,
	orderDate *time.Time,
	mpStatus MarketplaceStatus,
	initial Status,
	sourceFile string,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if invoiceID == "" {
		return nil, errs.NewValueIsRequiredError("invoiceID")
	}
	if err := channel.Validate(); err != nil {
		return nil, err
	}
	if err := mpStatus.Validate(); err != nil {
		return nil, err
	}
	if initial != StatusPending && initial != StatusCancel {
		return nil, errs.NewValueIsInvalidError("initial status must be Pending or Cancel")
	}

	return &Order{
		id:            id,
		invoiceID:     invoiceID,
		channel:       channel,
		customer:      customer,
		orderDate:     orderDate,
		mpStatus:      mpStatus,
		status:        initial,
		active:        true,
		sourceFile:    sourceFile,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs a header with its lines from persistence.
func RestoreOrder(
	id kernel.UUID,
	invoiceID string,
	channel Channel,
	customer string,
	orderDate *time.Time,
	mpStatus MarketplaceStatus,
	status Status,
	active bool,
	sourceFile string,
	lines []*Line,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if invoiceID == "" {
		return nil, errs.NewValueIsRequiredError("invoiceID")
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:            id,
		invoiceID:     invoiceID,
		channel:       channel,
		customer:      customer,
		orderDate:     orderDate,
		mpStatus:      mpStatus,
		status:        status,
		active:        active,
		sourceFile:    sourceFile,
		lines:         lines,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the header's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// InvoiceID returns the marketplace invoice number.
func (o *Order) InvoiceID() string {
	return o.invoiceID
}

// Channel returns the originating marketplace.
func (o *Order) Channel() Channel {
	return o.channel
}

// Customer returns the buyer name, possibly empty.
func (o *Order) Customer() string {
	return o.customer
}

// OrderDate returns the channel-reported order timestamp, nil when absent.
func (o *Order) OrderDate() *time.Time {
	return o.orderDate
}

// MarketplaceStatus returns the last stored channel status.
func (o *Order) MarketplaceStatus() MarketplaceStatus {
	return o.mpStatus
}

// Status returns the internal fulfillment status.
func (o *Order) Status() Status {
	return o.status
}

// IsActive reports whether this header is the live record for its invoice.
func (o *Order) IsActive() bool {
	return o.active
}

// SourceFile returns the export filename this header was last fed from.
func (o *Order) SourceFile() string {
	return o.sourceFile
}

// Lines returns the header's lines, including split-off return lines.
func (o *Order) Lines() []*Line {
	return o.lines
}

// AddLine appends a line to the header.
func (o *Order) AddLine(line *Line) error {
	if err := line.Validate(); err != nil {
		return err
	}
	o.lines = append(o.lines, line)
	return nil
}

// ContentSignature builds the multiset of (normalized source SKU, summed
// quantity) over all lines. Because splits conserve quantity and package
// expansion is deterministic, two ingestions of the same invoice content
// produce equal signatures regardless of return splits in between.
func (o *Order) ContentSignature() map[string]int {
	sig := make(map[string]int, len(o.lines))
	for _, line := range o.lines {
		sig[NormalizeSKU(line.sourceSKU)] += line.quantity
	}
	return sig
}

// HasSameContent compares the header's line multiset with an incoming one.
func (o *Order) HasSameContent(incoming map[string]int) bool {
	existing := o.ContentSignature()
	if len(existing) != len(incoming) {
		return false
	}
	for sku, qty := range incoming {
		if existing[sku] != qty {
			return false
		}
	}
	return true
}

// SetMarketplaceStatus updates the stored channel status.
// Returns true when the value actually changed.
func (o *Order) SetMarketplaceStatus(mp MarketplaceStatus) bool {
	if o.mpStatus == mp {
		return false
	}
	o.mpStatus = mp
	return true
}

// MarkCancelled transitions the header to Cancel and cancels all its lines.
// The caller is responsible for restocking Validated lines before calling;
// this aggregate only records the state change.
func (o *Order) MarkCancelled(mp MarketplaceStatus) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.mpStatus = mp
	for _, line := range o.lines {
		line.Cancel()
	}
	return nil
}

// MarkReturned transitions the header to Returned. Line-level return
// bookkeeping happens separately through RegisterReturns.
func (o *Order) MarkReturned(mp MarketplaceStatus) error {
	newStatus, err := o.status.Return()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.mpStatus = mp
	return nil
}

// Supersede archives the header in favor of a revision: the header becomes
// inactive and Obsolete, and all its lines are cancelled.
func (o *Order) Supersede() error {
	newStatus, err := o.status.Supersede()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.active = false
	for _, line := range o.lines {
		line.Cancel()
	}
	return nil
}

// RegisterReturns synchronizes line-level return state against target
// total-returned quantities per normalized source SKU. For each SKU the
// quantity already marked Returned on other lines is subtracted first, so
// repeated incremental return deliveries never re-return the same units.
//
// Per line, the remaining amount to return either flips the whole line to
// Returned, splits it (conserving quantity), or is a no-op when the target
// was already met. Amounts exceeding what the lines hold are clamped; the
// returned total lets the caller detect and log such an excess.
func (o *Order) RegisterReturns(targets map[string]int) int {
	applied := 0
	// Index lines before the loop: split-off lines appended during the loop
	// are already Returned and must not be revisited.
	candidates := make([]*Line, len(o.lines))
	copy(candidates, o.lines)

	for _, line := range candidates {
		if line.status == StatusReturned || line.status == StatusCancel {
			continue
		}

		sku := NormalizeSKU(line.sourceSKU)
		target, ok := targets[sku]
		if !ok {
			continue
		}

		remaining := target - o.returnedQuantityFor(sku)
		switch {
		case remaining >= line.quantity:
			applied += line.quantity
			line.MarkReturned()
		case remaining > 0:
			split, err := line.SplitReturn(remaining)
			if err != nil {
				continue
			}
			o.lines = append(o.lines, split)
			applied += remaining
		default:
			// Already synchronized for this SKU.
		}
	}

	return applied
}

// returnedQuantityFor sums the quantity already marked Returned for a SKU.
func (o *Order) returnedQuantityFor(sku string) int {
	total := 0
	for _, line := range o.lines {
		if line.status == StatusReturned && NormalizeSKU(line.sourceSKU) == sku {
			total += line.quantity
		}
	}
	return total
}
