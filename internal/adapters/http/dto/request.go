package dto

import (
	"fmt"

	"github.com/jsamuelsen11/record-registry/internal/domain"
)

const msgRequired = "is required"

// CreateRecordRequest represents the JSON body for creating a new record.
// Name may be empty; the length bound is enforced by the domain layer.
type CreateRecordRequest struct {
	ID   *uint64 `json:"id"`
	Name string  `json:"name"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateRecordRequest) Validate() error {
	fields := make(map[string]string)

	if r.ID == nil {
		fields["id"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateStatusRequest represents the JSON body for setting a record's active
// flag. The pointer distinguishes an explicit false from an absent field.
type UpdateStatusRequest struct {
	Active *bool `json:"active"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateStatusRequest) Validate() error {
	fields := make(map[string]string)

	if r.Active == nil {
		fields["active"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// BulkStatusItem pairs one record id with its desired active flag within a
// bulk request.
type BulkStatusItem struct {
	ID     *uint64 `json:"id"`
	Active *bool   `json:"active"`
}

// BulkStatusRequest represents the JSON body for updating many records'
// active flags in one request.
type BulkStatusRequest struct {
	Updates []BulkStatusItem `json:"updates"`
}

// Validate checks that the batch is non-empty and every item is complete.
// Batch-level constraints (size cap, duplicate ids) are enforced by the
// application layer. Returns a *domain.ValidationError if any checks fail.
func (r *BulkStatusRequest) Validate() error {
	fields := make(map[string]string)

	if len(r.Updates) == 0 {
		fields["updates"] = msgRequired
	}
	for i, u := range r.Updates {
		if u.ID == nil {
			fields[fmt.Sprintf("updates[%d].id", i)] = msgRequired
		}
		if u.Active == nil {
			fields[fmt.Sprintf("updates[%d].active", i)] = msgRequired
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
