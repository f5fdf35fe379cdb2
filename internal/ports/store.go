package ports

import (
	"context"

	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
)

// SlotStore is the storage substrate port: a flat keyspace of fixed-size
// slots addressed by derived addresses. Implementations must serialize all
// mutations to a single address so no operation observes a torn slot;
// operations on distinct addresses are independent.
//
// The store also owns deposit accounting: Init charges the payer a deposit
// proportional to the slot size, and Close refunds it in full to the
// closing identity.
type SlotStore interface {
	// Init atomically allocates the slot at addr and writes data into it,
	// recording the deposit charged to payer. Returns domain.ErrSlotInUse
	// if the address is already occupied; on that path nothing is written.
	Init(ctx context.Context, addr record.Address, data []byte, payer domain.Identity) error

	// Read returns the slot contents at addr.
	// Returns domain.ErrNotFound for an unoccupied address.
	Read(ctx context.Context, addr record.Address) ([]byte, error)

	// Write replaces the contents of an existing slot.
	// Returns domain.ErrNotFound for an unoccupied address.
	Write(ctx context.Context, addr record.Address, data []byte) error

	// Close deallocates the slot and returns the deposit refunded to
	// closer. The address becomes available for a future Init; no
	// tombstone is kept. Returns domain.ErrNotFound for an unoccupied
	// address.
	Close(ctx context.Context, addr record.Address, closer domain.Identity) (uint64, error)
}
