package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the internal fulfillment state of a header or line.
// It implements a state machine with defined transitions so orders follow
// the warehouse workflow.
//
// State transitions:
//
//	Pending ──┬──> Validated ──┬──> Cancel
//	          │                └──> Returned ──> Returned (partial splits)
//	          └──> Cancel
//
// Any active status can additionally be superseded to Obsolete when a later
// ingestion of the same invoice carries materially different content.
// Validated is reached by the pick-confirmation flow, which lives outside
// this package; the state machine only accepts it as a restored state.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status for a header or line awaiting a pick.
	StatusPending

	// StatusValidated indicates the pick was confirmed and stock was deducted.
	StatusValidated

	// StatusCancel indicates the order or line was cancelled. Terminal.
	StatusCancel

	// StatusReturned indicates picked goods came back. A Returned header can
	// still receive further partial return splits.
	StatusReturned

	// StatusObsolete indicates the header was superseded by a revision.
	// Only headers carry this status; it never appears on a live line.
	StatusObsolete
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "Unknown",
		StatusPending:   "Pending",
		StatusValidated: "Validated",
		StatusCancel:    "Cancel",
		StatusReturned:  "Returned",
		StatusObsolete:  "Obsolete",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:   "Pending",
		StatusValidated: "Validated",
		StatusCancel:    "Cancel",
		StatusReturned:  "Returned",
		StatusObsolete:  "Obsolete",
	}
}

// StatusFromString parses a persisted status string.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined statuses.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status ends the fulfillment lifecycle.
// Returned is terminal for forward progress but still accepts partial splits.
func (s Status) IsTerminal() bool {
	return s == StatusCancel || s == StatusReturned || s == StatusObsolete
}

// Cancel transitions the status to Cancel.
//
// Valid transitions:
//   - Pending -> Cancel (never picked, nothing to restock)
//   - Validated -> Cancel (caller is responsible for restocking)
//   - Returned -> Cancel (a cancel signal after a return closes the order)
//   - Cancel -> Cancel (re-ingesting a cancelled invoice is a no-op)
//
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Cancel() (Status, error) {
	if s != StatusPending && s != StatusValidated && s != StatusReturned && s != StatusCancel {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}
	return StatusCancel, nil
}

// Return transitions the status to Returned.
//
// Valid transitions:
//   - Validated -> Returned (picked goods came back)
//   - Returned -> Returned (further partial return delivery)
//
// Pending headers must not transition here: no pick ever happened, so there
// is nothing physical to return. Callers convert that case to a Cancel.
func (s Status) Return() (Status, error) {
	if s != StatusValidated && s != StatusReturned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to return", s.String()),
		)
	}
	return StatusReturned, nil
}

// Supersede transitions the status to Obsolete when a revision replaces the header.
// Allowed from any valid status; a superseded header restarts the lifecycle
// under a fresh header row.
func (s Status) Supersede() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return StatusObsolete, nil
}
