package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not initialized through
// one of the constructor functions. Returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is the identifier value object shared by every aggregate in the
// system: order headers and lines, products, warehouse locations, stock
// movements and import jobs. It wraps github.com/google/uuid to keep the
// library type out of domain signatures and to make the zero value
// detectably invalid.
//
// The zero value must never be used directly; construct through NewUUID,
// UUIDFromString, or UUIDFromBytes. UUID is immutable and safe for
// concurrent use.
//
// Example usage:
//
//	// Identifier for a freshly created header
//	headerID := kernel.NewUUID()
//
//	// Reconstructing an identifier received over HTTP
//	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
//	if err != nil {
//	    // reject the request
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random UUID (version 4). This is the only way new
// identifiers are minted: headers, lines, movements and jobs all get one at
// construction time.
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses a UUID from its string representation. It accepts
// the standard formats understood by the underlying library:
//   - "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
//   - "{6ba7b810-9dad-11d1-80b4-00c04fd430c8}"
//   - "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8"
//
// Used when identifiers arrive as text, typically HTTP path parameters.
// Returns an error for anything that is not a valid UUID.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes creates a UUID from a 16-byte slice. Used when restoring
// aggregates from persistence, where the driver hands identifiers back in
// binary form. A slice of the wrong length, or one holding the nil UUID, is
// an error: stored rows never carry a zero identifier.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
// This is the representation used in log fields, API responses and the
// database columns that store identifiers as text.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying library value. The persistence DTOs use it to
// hand identifiers to the driver; domain code should not need it.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether two UUIDs represent the same identifier.
//
// Example:
//
//	if line.ProductID().IsEqual(componentID) {
//	    // same physical product
//	}
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate checks that the UUID was properly constructed. Returns
// ErrUUIDIsNotConstructed for the zero value. Aggregate constructors call
// this on every identifier they receive, so an unset ID is caught at the
// domain boundary rather than surfacing as a nil-UUID row.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
