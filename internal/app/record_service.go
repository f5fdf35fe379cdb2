// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/record-registry/internal/app/fanout"
	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/platform/telemetry"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

// Compile-time check that RecordService implements ports.RecordService.
var _ ports.RecordService = (*RecordService)(nil)

// bulkWorkers bounds the fan-out concurrency for bulk status updates.
const bulkWorkers = 8

// maxBulkUpdates caps the number of items accepted in one bulk request.
const maxBulkUpdates = 100

// RecordService implements ports.RecordService for one record kind. It
// orchestrates name validation, address derivation, the ownership guard,
// and slot storage. Two instances back the entity and task keyspaces and
// differ only in the kind they are constructed with.
type RecordService struct {
	kind    record.Kind
	deriver *record.Deriver
	store   ports.SlotStore
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewRecordService creates a RecordService for the given kind. The deriver
// maps record ids to storage addresses, the store holds the slots, and the
// logger and metrics record per-operation outcomes. metrics may be nil when
// telemetry is disabled.
func NewRecordService(kind record.Kind, deriver *record.Deriver, store ports.SlotStore, logger *slog.Logger, metrics *telemetry.Metrics) *RecordService {
	return &RecordService{
		kind:    kind,
		deriver: deriver,
		store:   store,
		logger:  logger.With(slog.String("kind", string(kind))),
		metrics: metrics,
	}
}

// Create validates the name, derives the slot address from id, and
// initializes a new record owned by creator. The name is checked before any
// slot is allocated, so a rejected name never costs a deposit.
func (s *RecordService) Create(ctx context.Context, id uint64, name string, creator domain.Identity) (*record.Record, error) {
	start := time.Now()

	rec, err := record.New(id, name, creator)
	if err != nil {
		s.observe(ctx, "create", start, err)
		return nil, err
	}

	data, err := record.Encode(s.kind, rec)
	if err != nil {
		s.observe(ctx, "create", start, err)
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	addr := s.deriver.Derive(s.kind, id)
	if err := s.store.Init(ctx, addr, data, creator); err != nil {
		s.logger.ErrorContext(ctx, "failed to create record",
			slog.String("operation", "Create"),
			slog.Uint64("id", id),
			slog.Any("error", err),
		)
		s.observe(ctx, "create", start, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "record created",
		slog.String("name", rec.Name),
		slog.Uint64("id", rec.ID),
	)
	s.observe(ctx, "create", start, nil)
	return rec, nil
}

// Get returns the record stored at id, or domain.ErrNotFound.
func (s *RecordService) Get(ctx context.Context, id uint64) (*record.Record, error) {
	start := time.Now()

	rec, err := s.load(ctx, id)
	if err != nil {
		s.observe(ctx, "get", start, err)
		return nil, err
	}

	s.observe(ctx, "get", start, nil)
	return rec, nil
}

// UpdateStatus sets the record's active flag after the ownership guard
// passes. Re-asserting the current value is a successful no-op that still
// rewrites the slot.
func (s *RecordService) UpdateStatus(ctx context.Context, id uint64, active bool, caller domain.Identity) (*record.Record, error) {
	start := time.Now()

	rec, err := s.updateStatus(ctx, id, active, caller)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update record status",
			slog.String("operation", "UpdateStatus"),
			slog.Uint64("id", id),
			slog.Any("error", err),
		)
		s.observe(ctx, "update_status", start, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "record status updated",
		slog.Uint64("id", rec.ID),
		slog.Bool("active", rec.Active),
	)
	s.observe(ctx, "update_status", start, nil)
	return rec, nil
}

// BulkUpdateStatus applies the updates concurrently with partial-success
// semantics. Duplicate ids within the batch are rejected up front because
// two concurrent writes to the same slot would race on ordering.
func (s *RecordService) BulkUpdateStatus(ctx context.Context, updates []ports.StatusUpdate, caller domain.Identity) (*ports.BulkStatusResult, error) {
	start := time.Now()

	if len(updates) == 0 {
		err := &domain.ValidationError{Fields: map[string]string{"updates": "must not be empty"}}
		s.observe(ctx, "bulk_update_status", start, err)
		return nil, err
	}
	if len(updates) > maxBulkUpdates {
		err := &domain.ValidationError{Fields: map[string]string{
			"updates": fmt.Sprintf("at most %d items per request, got %d", maxBulkUpdates, len(updates)),
		}}
		s.observe(ctx, "bulk_update_status", start, err)
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(updates))
	for _, u := range updates {
		if _, dup := seen[u.ID]; dup {
			err := &domain.ValidationError{Fields: map[string]string{
				"updates": fmt.Sprintf("duplicate id %d in batch", u.ID),
			}}
			s.observe(ctx, "bulk_update_status", start, err)
			return nil, err
		}
		seen[u.ID] = struct{}{}
	}

	results := fanout.Run(ctx, bulkWorkers, updates, func(ctx context.Context, u ports.StatusUpdate) (*record.Record, error) {
		return s.updateStatus(ctx, u.ID, u.Active, caller)
	})

	out := &ports.BulkStatusResult{}
	for i, res := range results {
		if res.Err != nil {
			out.Errors = append(out.Errors, ports.BulkStatusError{ID: updates[i].ID, Err: res.Err})
			continue
		}
		out.Updated = append(out.Updated, *res.Value)
	}

	s.logger.InfoContext(ctx, "bulk status update completed",
		slog.Int("requested", len(updates)),
		slog.Int("updated", len(out.Updated)),
		slog.Int("failed", len(out.Errors)),
	)
	s.observe(ctx, "bulk_update_status", start, nil)
	return out, nil
}

// Delete destroys the record at id and refunds its storage deposit to the
// caller. The caller identity is logged before the slot is released since
// nothing about the record survives the close.
func (s *RecordService) Delete(ctx context.Context, id uint64, caller domain.Identity) (uint64, error) {
	start := time.Now()

	rec, err := s.load(ctx, id)
	if err != nil {
		s.observe(ctx, "delete", start, err)
		return 0, err
	}

	if err := record.Authorize(rec, caller); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete record",
			slog.String("operation", "Delete"),
			slog.Uint64("id", id),
			slog.Any("error", err),
		)
		s.observe(ctx, "delete", start, err)
		return 0, err
	}

	s.logger.InfoContext(ctx, "record deleted",
		slog.Uint64("id", rec.ID),
		slog.String("caller", caller.String()),
	)

	addr := s.deriver.Derive(s.kind, id)
	refund, err := s.store.Close(ctx, addr, caller)
	if err != nil {
		s.observe(ctx, "delete", start, err)
		return 0, err
	}

	s.observe(ctx, "delete", start, nil)
	return refund, nil
}

// updateStatus performs one guarded status update without logging or
// metrics, shared between the single and bulk paths.
func (s *RecordService) updateStatus(ctx context.Context, id uint64, active bool, caller domain.Identity) (*record.Record, error) {
	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := record.Authorize(rec, caller); err != nil {
		return nil, err
	}

	rec.Active = active

	data, err := record.Encode(s.kind, rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	addr := s.deriver.Derive(s.kind, id)
	if err := s.store.Write(ctx, addr, data); err != nil {
		return nil, err
	}

	return rec, nil
}

// load reads and decodes the record at id.
func (s *RecordService) load(ctx context.Context, id uint64) (*record.Record, error) {
	addr := s.deriver.Derive(s.kind, id)

	data, err := s.store.Read(ctx, addr)
	if err != nil {
		return nil, err
	}

	rec, err := record.Decode(s.kind, data)
	if err != nil {
		return nil, fmt.Errorf("decoding record %d: %w", id, err)
	}

	return rec, nil
}

// observe emits duration and count metrics for one operation.
func (s *RecordService) observe(ctx context.Context, op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "error"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrOperation.String(op),
		telemetry.AttrRecordKind.String(string(s.kind)),
		telemetry.AttrResult.String(result),
	)
	s.metrics.RecordOpDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.RecordOpTotal.Add(ctx, 1, attrs)
}
