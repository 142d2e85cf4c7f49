package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrLineIsNotConstructed is returned when a Line instance was not created
	// through the NewLine or RestoreLine factory methods.
	ErrLineIsNotConstructed = errors.New("Line must be created via NewLine or RestoreLine constructor")

	// ErrSplitQuantityInvalid is returned when a partial-return split would not
	// conserve the line's quantity.
	ErrSplitQuantityInvalid = errors.New("split quantity must be positive and less than the line quantity")
)

// NormalizeSKU canonicalizes SKU text as seen in marketplace exports so that
// case and whitespace differences do not break multiset comparison.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Line represents one product quantity within an order header. A line is
// created pickable (Pending), resolved already (Cancel/Returned), and can be
// split when only part of its quantity is returned.
//
// Invariant: splitting conserves quantity. The remainder line plus the
// split-off returned line always sum to the original quantity, so summing all
// lines sharing a source SKU never double-counts a physical unit.
type Line struct {
	id kernel.UUID

	// productID references the resolved physical product. Package SKUs are
	// expanded before line creation, so this is always a component product.
	productID kernel.UUID

	// sourceSKU is the SKU text as seen in the marketplace export. For
	// expanded package lines this remains the package SKU.
	sourceSKU string

	quantity int
	status   Status

	// suggestedLocationID is the allocator's advisory pick location.
	suggestedLocationID *kernel.UUID

	// pickedFromLocationID is set by the pick-confirmation flow once stock
	// was actually deducted.
	pickedFromLocationID *kernel.UUID

	// returnedToLocationID is where returned stock was confirmed back in.
	returnedToLocationID *kernel.UUID

	returnNote string

	isConstructed bool
}

// NewLine creates a line in its initial state. Quantity must be positive,
// the source SKU must be present, and the status must be one a line can be
// born with: Pending, Cancel or Returned.
func NewLine(id kernel.UUID, productID kernel.UUID, sourceSKU string, quantity int, status Status) (*Line, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if NormalizeSKU(sourceSKU) == "" {
		return nil, errs.NewValueIsRequiredError("sourceSKU")
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if status != StatusPending && status != StatusCancel && status != StatusReturned {
		return nil, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid initial line status", status))
	}

	return &Line{
		id:            id,
		productID:     productID,
		sourceSKU:     sourceSKU,
		quantity:      quantity,
		status:        status,
		isConstructed: true,
	}, nil
}

// RestoreLine reconstructs a line from persistence without applying
// initial-state rules.
func RestoreLine(
	id kernel.UUID,
	productID kernel.UUID,
	sourceSKU string,
	quantity int,
	status Status,
	suggestedLocationID *kernel.UUID,
	pickedFromLocationID *kernel.UUID,
	returnedToLocationID *kernel.UUID,
	returnNote string,
) (*Line, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return &Line{
		id:                   id,
		productID:            productID,
		sourceSKU:            sourceSKU,
		quantity:             quantity,
		status:               status,
		suggestedLocationID:  suggestedLocationID,
		pickedFromLocationID: pickedFromLocationID,
		returnedToLocationID: returnedToLocationID,
		returnNote:           returnNote,
		isConstructed:        true,
	}, nil
}

// Validate ensures the Line instance was properly constructed.
func (l *Line) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLineIsNotConstructed
	}
	return nil
}

// ID returns the line's unique identifier.
func (l *Line) ID() kernel.UUID {
	return l.id
}

// ProductID returns the resolved physical product reference.
func (l *Line) ProductID() kernel.UUID {
	return l.productID
}

// SourceSKU returns the SKU text as seen in the marketplace export.
func (l *Line) SourceSKU() string {
	return l.sourceSKU
}

// Quantity returns the line's current quantity.
func (l *Line) Quantity() int {
	return l.quantity
}

// Status returns the line's current status.
func (l *Line) Status() Status {
	return l.status
}

// SuggestedLocation returns the advisory pick location, nil if none.
func (l *Line) SuggestedLocation() *kernel.UUID {
	return l.suggestedLocationID
}

// PickedFrom returns the location stock was actually deducted from, nil until
// the pick was confirmed.
func (l *Line) PickedFrom() *kernel.UUID {
	return l.pickedFromLocationID
}

// ReturnedTo returns the location returned stock was confirmed into, nil if none.
func (l *Line) ReturnedTo() *kernel.UUID {
	return l.returnedToLocationID
}

// ReturnNote returns free-form condition notes captured on return.
func (l *Line) ReturnNote() string {
	return l.returnNote
}

// SetSuggestedLocation records the allocator's advisory location.
// Only meaningful on a Pending line; resolved lines are never picked.
func (l *Line) SetSuggestedLocation(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}
	if l.status != StatusPending {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s line cannot receive a suggested location", l.status))
	}
	l.suggestedLocationID = &locationID
	return nil
}

// Cancel moves the line to Cancel. Idempotent on already-cancelled lines.
func (l *Line) Cancel() {
	l.status = StatusCancel
	l.suggestedLocationID = nil
}

// MarkReturned flips the whole line to Returned.
func (l *Line) MarkReturned() {
	l.status = StatusReturned
	l.suggestedLocationID = nil
}

// SplitReturn carves a partial return out of this line. The line keeps its
// prior status with the remainder quantity (the still-sold portion) and a new
// Returned line is created carrying the returned quantity and no location.
// Quantity is conserved: remainder + split-off == original.
func (l *Line) SplitReturn(returnQuantity int) (*Line, error) {
	if returnQuantity <= 0 || returnQuantity >= l.quantity {
		return nil, ErrSplitQuantityInvalid
	}

	l.quantity -= returnQuantity

	return &Line{
		id:            kernel.NewUUID(),
		productID:     l.productID,
		sourceSKU:     l.sourceSKU,
		quantity:      returnQuantity,
		status:        StatusReturned,
		isConstructed: true,
	}, nil
}
