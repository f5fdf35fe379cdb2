package domain

import (
	"encoding/hex"
	"fmt"
)

// IdentitySize is the fixed width of a caller identity in bytes.
const IdentitySize = 32

// Identity is an opaque public-key-equivalent identity token. The external
// runtime verifies possession (signature, bearer token) before any operation
// reaches the core; the core only ever compares identities for equality.
type Identity [IdentitySize]byte

// ParseIdentity decodes a 64-character hex string into an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decoding identity: %w", err)
	}
	if len(b) != IdentitySize {
		return id, fmt.Errorf("identity must be %d bytes, got %d", IdentitySize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// String returns the hex encoding of the identity.
func (i Identity) String() string {
	return hex.EncodeToString(i[:])
}

// IsZero reports whether the identity is the all-zero value, which is never
// a valid caller.
func (i Identity) IsZero() bool {
	return i == Identity{}
}
