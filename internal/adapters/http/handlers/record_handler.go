// Package handlers provides HTTP handler implementations for the inbound
// adapter layer. Handlers decode and validate requests, delegate to service
// ports, and map outcomes to HTTP responses. One RecordHandler instance
// serves each record kind.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/record-registry/internal/adapters/http/dto"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

// RecordHandler handles HTTP requests for one record kind's CRUD operations.
type RecordHandler struct {
	service ports.RecordService
}

// NewRecordHandler creates a new RecordHandler with the given service port.
func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// Create handles POST /api/v1/{kind}.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateRecordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), *req.ID, req.Name, caller)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToRecordResponse(created))
}

// Get handles GET /api/v1/{kind}/{id}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecordResponse(rec))
}

// UpdateStatus handles PATCH /api/v1/{kind}/{id}/status.
func (h *RecordHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, *req.Active, caller)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecordResponse(updated))
}

// BulkUpdateStatus handles PATCH /api/v1/{kind}/status/bulk.
func (h *RecordHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.BulkStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updates := make([]ports.StatusUpdate, len(req.Updates))
	for i, u := range req.Updates {
		updates[i] = ports.StatusUpdate{ID: *u.ID, Active: *u.Active}
	}

	result, err := h.service.BulkUpdateStatus(r.Context(), updates, caller)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBulkStatusResponse(result))
}

// Delete handles DELETE /api/v1/{kind}/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	refund, err := h.service.Delete(r.Context(), id, caller)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteRecordResponse{
		ID:              id,
		DepositRefunded: refund,
	})
}
