// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

// RecordResponse represents a single record in HTTP responses. Owner is the
// hex encoding of the owner identity.
type RecordResponse struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Owner  string `json:"owner"`
	Active bool   `json:"active"`
}

// ToRecordResponse converts a domain Record to an HTTP response DTO.
func ToRecordResponse(rec *record.Record) RecordResponse {
	return RecordResponse{
		ID:     rec.ID,
		Name:   rec.Name,
		Owner:  rec.Owner.String(),
		Active: rec.Active,
	}
}

// DeleteRecordResponse represents the result of deleting a record.
type DeleteRecordResponse struct {
	ID              uint64 `json:"id"`
	DepositRefunded uint64 `json:"deposit_refunded"`
}

// BulkStatusResponse represents the result of a bulk status update.
// It includes both successful updates and per-item errors.
type BulkStatusResponse struct {
	Updated   []RecordResponse      `json:"updated"`
	Errors    []BulkStatusErrorItem `json:"errors"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// BulkStatusErrorItem represents a single failed update within a bulk
// operation.
type BulkStatusErrorItem struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
}

// ToBulkStatusResponse converts a ports.BulkStatusResult to an HTTP response DTO.
func ToBulkStatusResponse(result *ports.BulkStatusResult) BulkStatusResponse {
	updated := make([]RecordResponse, len(result.Updated))
	for i := range result.Updated {
		updated[i] = ToRecordResponse(&result.Updated[i])
	}

	errs := make([]BulkStatusErrorItem, len(result.Errors))
	for i, e := range result.Errors {
		errs[i] = BulkStatusErrorItem{
			ID:      e.ID,
			Message: e.Err.Error(),
		}
	}

	total := len(result.Updated) + len(result.Errors)
	return BulkStatusResponse{
		Updated:   updated,
		Errors:    errs,
		Total:     total,
		Succeeded: len(result.Updated),
		Failed:    len(result.Errors),
	}
}
