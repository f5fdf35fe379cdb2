package record

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// AddressSize is the width of a derived storage address in bytes.
const AddressSize = 32

// Address is a deterministic storage location derived from (namespace, id).
type Address [AddressSize]byte

// String returns the hex encoding of the address. Storage backends use it
// as their primary key.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Deriver computes storage addresses with a keyed BLAKE2b-256 hash. The key
// is the service identifier supplied by configuration at startup, so two
// deployments with different identifiers occupy disjoint keyspaces. The
// deriver is injected into the record service, keeping the storage backend
// swappable without touching core logic.
type Deriver struct {
	key []byte
}

// NewDeriver creates a Deriver keyed with the given service identifier.
// The identifier must be non-empty and at most 64 bytes (the BLAKE2b key
// limit).
func NewDeriver(serviceID string) (*Deriver, error) {
	if serviceID == "" {
		return nil, fmt.Errorf("service identifier must not be empty")
	}
	if len(serviceID) > 64 {
		return nil, fmt.Errorf("service identifier must be at most 64 bytes, got %d", len(serviceID))
	}
	return &Deriver{key: []byte(serviceID)}, nil
}

// Derive computes the address for a record id within kind k's namespace:
// keyed BLAKE2b-256 over namespace bytes followed by the little-endian
// encoding of id.
func (d *Deriver) Derive(k Kind, id uint64) Address {
	h, err := blake2b.New256(d.key)
	if err != nil {
		// Key length is validated in NewDeriver.
		panic(err)
	}
	h.Write(k.Namespace())

	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], id)
	h.Write(le[:])

	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}
