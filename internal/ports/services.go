package ports

import (
	"context"

	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
)

// RecordService defines the service port for one record kind. Implemented by
// the application layer; called by inbound adapters (handlers). The service
// orchestrates validation, the ownership guard, and slot storage; it holds
// no state of its own.
type RecordService interface {
	// Create validates the name, derives the storage address from id, and
	// initializes a new record owned by creator with active=true.
	// Returns domain.ErrNameTooLong if the name fails validation (no slot
	// is allocated) and domain.ErrSlotInUse if a record already occupies
	// the id.
	Create(ctx context.Context, id uint64, name string, creator domain.Identity) (*record.Record, error)

	// Get returns the record stored at id.
	// Returns domain.ErrNotFound if no record exists there.
	Get(ctx context.Context, id uint64) (*record.Record, error)

	// UpdateStatus sets the record's active flag. Re-asserting the current
	// value is a successful no-op.
	// Returns domain.ErrNotFound if no record exists at id and
	// domain.ErrUnauthorized if caller is not the owner (the record is
	// left unchanged).
	UpdateStatus(ctx context.Context, id uint64, active bool, caller domain.Identity) (*record.Record, error)

	// BulkUpdateStatus applies many status updates concurrently with
	// partial-success semantics: each update succeeds or fails on its own.
	// A hard error is returned only for request-level failures (duplicate
	// ids in the batch). Per-item failures are collected in
	// BulkStatusResult.Errors.
	BulkUpdateStatus(ctx context.Context, updates []StatusUpdate, caller domain.Identity) (*BulkStatusResult, error)

	// Delete destroys the record and refunds its storage deposit to the
	// caller, returning the refunded amount.
	// Returns domain.ErrNotFound if no record exists at id and
	// domain.ErrUnauthorized if caller is not the owner (the record is
	// left untouched).
	Delete(ctx context.Context, id uint64, caller domain.Identity) (uint64, error)
}

// StatusUpdate pairs a record id with its desired active flag for bulk
// operations.
type StatusUpdate struct {
	ID     uint64
	Active bool
}

// BulkStatusError records a single failed update within a bulk operation.
type BulkStatusError struct {
	ID  uint64
	Err error
}

// BulkStatusResult holds the outcomes of a bulk status update. Updated
// contains successfully updated records; Errors contains per-item failures.
type BulkStatusResult struct {
	Updated []record.Record
	Errors  []BulkStatusError
}
