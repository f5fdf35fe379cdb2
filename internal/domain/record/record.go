// Package record implements the generic record store domain: the record
// entity and its invariants, name validation, the ownership guard, the slot
// codec, and deterministic address derivation. Entities and tasks are the
// same component instantiated under different kinds.
package record

import (
	"fmt"
	"unicode/utf8"

	"github.com/jsamuelsen11/record-registry/internal/domain"
)

// MaxNameScalars bounds the record name to 50 Unicode scalar values.
const MaxNameScalars = 50

// Record is a uniquely-identified, owner-gated entry in the registry.
//
// Invariants:
//   - Owner is set exactly once at creation and never reassigned.
//   - ID is unique within its kind's keyspace; the storage substrate
//     rejects re-initialization of an occupied slot.
//   - Name satisfies the scalar-length bound at creation; no later
//     operation can alter it, so it is never re-validated.
type Record struct {
	ID     uint64
	Name   string
	Owner  domain.Identity
	Active bool
}

// New builds a freshly-created record owned by creator, active by default.
// Returns domain.ErrNameTooLong when the name exceeds the scalar bound.
func New(id uint64, name string, creator domain.Identity) (*Record, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	return &Record{
		ID:     id,
		Name:   name,
		Owner:  creator,
		Active: true,
	}, nil
}

// ValidateName counts Unicode scalar values in name and fails with
// domain.ErrNameTooLong past MaxNameScalars. No other validation is
// performed: empty names and any charset are accepted.
func ValidateName(name string) error {
	if n := utf8.RuneCountInString(name); n > MaxNameScalars {
		return fmt.Errorf("%w: %d scalar values, limit %d", domain.ErrNameTooLong, n, MaxNameScalars)
	}
	return nil
}

// Authorize is the ownership guard invoked at the top of every mutating
// operation. It returns domain.ErrUnauthorized unless caller equals the
// record's immutable owner.
func Authorize(rec *Record, caller domain.Identity) error {
	if caller != rec.Owner {
		return fmt.Errorf("%w: caller %s does not own record %d", domain.ErrUnauthorized, caller, rec.ID)
	}
	return nil
}
