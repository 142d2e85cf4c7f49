// Package stock provides the warehouse-side entities: storage locations, the
// per-location stock cells, and the append-only movement ledger that is the
// sole source of truth for why stock changed.
package stock

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrLocationIsNotConstructed is returned when a Location instance was not
// created through the NewLocation factory method.
var ErrLocationIsNotConstructed = errors.New("Location must be created via NewLocation constructor")

// Purpose classifies what a storage location is for. The allocator treats
// the front-of-store display purpose as the preferred pick source.
type Purpose int

const (
	// PurposeUnknown represents an invalid or undefined purpose.
	PurposeUnknown Purpose = iota

	// PurposeStorage is a regular warehouse shelf.
	PurposeStorage

	// PurposeDisplay is the front-of-store display area.
	PurposeDisplay

	// PurposeQuarantine holds damaged or held-back stock, never picked from.
	PurposeQuarantine
)

func getPurposeStrings() map[Purpose]string {
	return map[Purpose]string{
		PurposeUnknown:    "unknown",
		PurposeStorage:    "storage",
		PurposeDisplay:    "display",
		PurposeQuarantine: "quarantine",
	}
}

// PurposeFromString parses a persisted purpose string.
func PurposeFromString(s string) (Purpose, error) {
	for purpose, str := range getPurposeStrings() {
		if str == s && purpose != PurposeUnknown {
			return purpose, nil
		}
	}
	return PurposeUnknown, errs.NewValueIsInvalidErrorWithCause("purpose is invalid",
		fmt.Errorf("%q is not a valid purpose", s))
}

// Validate checks that the value is one of the defined purposes.
func (p Purpose) Validate() error {
	if p == PurposeUnknown {
		return errs.NewValueIsInvalidError("purpose is required")
	}
	if _, ok := getPurposeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("purpose is invalid",
			fmt.Errorf("%d is not a valid purpose", p))
	}
	return nil
}

// String returns the lowercase purpose name used in persistence and logs.
func (p Purpose) String() string {
	if str, ok := getPurposeStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// Location is a physical storage slot in the warehouse.
type Location struct {
	id      kernel.UUID
	code    string
	floor   int
	purpose Purpose

	isConstructed bool
}

// NewLocation creates a storage location. Floor must be positive and the
// code is the human-readable slot label used in import files.
func NewLocation(id kernel.UUID, code string, floor int, purpose Purpose) (*Location, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if floor <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("floor is invalid",
			fmt.Errorf("%d is not greater than 0", floor))
	}
	if err := purpose.Validate(); err != nil {
		return nil, err
	}

	return &Location{
		id:            id,
		code:          code,
		floor:         floor,
		purpose:       purpose,
		isConstructed: true,
	}, nil
}

// Validate ensures the Location instance was properly constructed.
func (l *Location) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLocationIsNotConstructed
	}
	return nil
}

// ID returns the location's unique identifier.
func (l *Location) ID() kernel.UUID {
	return l.id
}

// Code returns the human-readable slot label.
func (l *Location) Code() string {
	return l.code
}

// Floor returns the floor number the slot sits on.
func (l *Location) Floor() int {
	return l.floor
}

// Purpose returns the location's storage purpose.
func (l *Location) Purpose() Purpose {
	return l.purpose
}

// IsLowFloor reports whether the slot is cheap to reach for pickers.
func (l *Location) IsLowFloor() bool {
	return l.floor <= 2
}
