package stock

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrMovementIsNotConstructed is returned when a Movement instance was not
// created through the NewMovement factory method.
var ErrMovementIsNotConstructed = errors.New("Movement must be created via NewMovement constructor")

// MovementType classifies why stock moved.
type MovementType int

const (
	// MovementTypeUnknown represents an invalid or undefined movement type.
	MovementTypeUnknown MovementType = iota

	// MovementTypePick records stock leaving a location to fulfill a line.
	MovementTypePick

	// MovementTypeReturn records returned stock confirmed back into a location.
	MovementTypeReturn

	// MovementTypeTransfer records stock moved between two locations.
	MovementTypeTransfer

	// MovementTypeAdjustment records a manual count correction.
	MovementTypeAdjustment

	// MovementTypeCancelRestock records stock restored automatically when a
	// validated order was cancelled.
	MovementTypeCancelRestock
)

func getMovementTypeStrings() map[MovementType]string {
	return map[MovementType]string{
		MovementTypeUnknown:       "unknown",
		MovementTypePick:          "pick",
		MovementTypeReturn:        "return",
		MovementTypeTransfer:      "transfer",
		MovementTypeAdjustment:    "adjustment",
		MovementTypeCancelRestock: "cancel_restock",
	}
}

// Validate checks that the value is one of the defined movement types.
func (t MovementType) Validate() error {
	if t == MovementTypeUnknown {
		return errs.NewValueIsInvalidError("movement type is required")
	}
	if _, ok := getMovementTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("movement type is invalid",
			fmt.Errorf("%d is not a valid movement type", t))
	}
	return nil
}

// String returns the snake_case type name used in persistence and logs.
func (t MovementType) String() string {
	if str, ok := getMovementTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Movement is one row of the append-only stock ledger. Movements are never
// updated or deleted; corrections are recorded as new adjustment movements.
// Either end of the move may be absent: a pick has no destination, a return
// from a customer has no source.
type Movement struct {
	id             kernel.UUID
	productID      kernel.UUID
	quantity       int
	movementType   MovementType
	fromLocationID *kernel.UUID
	toLocationID   *kernel.UUID
	actor          string
	note           string
	occurredAt     time.Time

	isConstructed bool
}

// NewMovement creates a ledger row. Quantity must be positive; direction is
// expressed through the from and to locations, at least one of which must be
// set.
func NewMovement(
	id kernel.UUID,
	productID kernel.UUID,
	quantity int,
	movementType MovementType,
	fromLocationID *kernel.UUID,
	toLocationID *kernel.UUID,
	actor string,
	note string,
	occurredAt time.Time,
) (*Movement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := movementType.Validate(); err != nil {
		return nil, err
	}
	if fromLocationID == nil && toLocationID == nil {
		return nil, errs.NewValueIsInvalidError("movement must have a source or a destination location")
	}

	return &Movement{
		id:             id,
		productID:      productID,
		quantity:       quantity,
		movementType:   movementType,
		fromLocationID: fromLocationID,
		toLocationID:   toLocationID,
		actor:          actor,
		note:           note,
		occurredAt:     occurredAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Movement instance was properly constructed.
func (m *Movement) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMovementIsNotConstructed
	}
	return nil
}

// ID returns the ledger row identifier.
func (m *Movement) ID() kernel.UUID {
	return m.id
}

// ProductID returns the moved product.
func (m *Movement) ProductID() kernel.UUID {
	return m.productID
}

// Quantity returns the moved amount, always positive.
func (m *Movement) Quantity() int {
	return m.quantity
}

// Type returns the movement classification.
func (m *Movement) Type() MovementType {
	return m.movementType
}

// FromLocation returns the source location, nil when stock entered from outside.
func (m *Movement) FromLocation() *kernel.UUID {
	return m.fromLocationID
}

// ToLocation returns the destination location, nil when stock left the system.
func (m *Movement) ToLocation() *kernel.UUID {
	return m.toLocationID
}

// Actor returns who or what caused the movement, for example a user name or
// a job identifier.
func (m *Movement) Actor() string {
	return m.actor
}

// Note returns the free-form annotation, possibly empty.
func (m *Movement) Note() string {
	return m.note
}

// OccurredAt returns when the movement happened.
func (m *Movement) OccurredAt() time.Time {
	return m.occurredAt
}
