package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/record-registry/internal/adapters/http/dto"
	"github.com/jsamuelsen11/record-registry/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

// --- Create ---

func TestCreate(t *testing.T) {
	t.Parallel()

	caller := testIdentity(1)
	svc := &fakeRecordService{
		createFn: func(_ context.Context, id uint64, name string, creator domain.Identity) (*record.Record, error) {
			if id != 42 || name != "a record" || creator != caller {
				t.Errorf("Create called with (%d, %q, %s)", id, name, creator)
			}
			return &record.Record{ID: id, Name: name, Owner: creator, Active: true}, nil
		},
	}
	h := handlers.NewRecordHandler(svc)

	body := jsonBody(t, map[string]any{"id": 42, "name": "a record"})
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body), caller)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusCreated)

	resp := decodeJSON[dto.RecordResponse](t, rec)
	if resp.ID != 42 {
		t.Errorf("ID = %d, want 42", resp.ID)
	}
	if resp.Owner != caller.String() {
		t.Errorf("Owner = %q, want %q", resp.Owner, caller.String())
	}
	if !resp.Active {
		t.Error("Active = false, want true")
	}
}

func TestCreate_NoIdentity(t *testing.T) {
	t.Parallel()

	h := handlers.NewRecordHandler(&fakeRecordService{})

	body := jsonBody(t, map[string]any{"id": 1, "name": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestCreate_InvalidBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: "{not json"},
		{name: "missing id", body: `{"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewRecordHandler(&fakeRecordService{})

			req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/tasks",
				strings.NewReader(tt.body)), testIdentity(1))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			requireStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestCreate_NameTooLong(t *testing.T) {
	t.Parallel()

	svc := &fakeRecordService{
		createFn: func(context.Context, uint64, string, domain.Identity) (*record.Record, error) {
			return nil, domain.ErrNameTooLong
		},
	}
	h := handlers.NewRecordHandler(svc)

	body := jsonBody(t, map[string]any{"id": 1, "name": "way too long"})
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body), testIdentity(1))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreate_SlotInUse(t *testing.T) {
	t.Parallel()

	svc := &fakeRecordService{
		createFn: func(context.Context, uint64, string, domain.Identity) (*record.Record, error) {
			return nil, domain.ErrSlotInUse
		},
	}
	h := handlers.NewRecordHandler(svc)

	body := jsonBody(t, map[string]any{"id": 1, "name": "dup"})
	req := withCaller(httptest.NewRequest(http.MethodPost, "/api/v1/tasks", body), testIdentity(1))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusConflict)
}

// --- Get ---

func TestGet(t *testing.T) {
	t.Parallel()

	want := validRecord()
	svc := &fakeRecordService{
		getFn: func(_ context.Context, id uint64) (*record.Record, error) {
			if id != want.ID {
				t.Errorf("Get called with id %d, want %d", id, want.ID)
			}
			return &want, nil
		},
	}
	h := handlers.NewRecordHandler(svc)

	req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/1", nil),
		map[string]string{"id": "1"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	requireStatus(t, rec, http.StatusOK)

	resp := decodeJSON[dto.RecordResponse](t, rec)
	if resp.ID != want.ID || resp.Name != want.Name {
		t.Errorf("response = %+v, want %+v", resp, want)
	}
}

func TestGet_InvalidID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
	}{
		{name: "not a number", id: "abc"},
		{name: "negative", id: "-1"},
		{name: "overflow", id: "99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewRecordHandler(&fakeRecordService{})

			req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+tt.id, nil),
				map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()
			h.Get(rec, req)

			requireStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	svc := &fakeRecordService{
		getFn: func(context.Context, uint64) (*record.Record, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := handlers.NewRecordHandler(svc)

	req := withChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/99", nil),
		map[string]string{"id": "99"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- UpdateStatus ---

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	caller := testIdentity(1)
	svc := &fakeRecordService{
		updateFn: func(_ context.Context, id uint64, active bool, got domain.Identity) (*record.Record, error) {
			if id != 1 || active || got != caller {
				t.Errorf("UpdateStatus called with (%d, %t, %s)", id, active, got)
			}
			return &record.Record{ID: id, Name: "a record", Owner: caller, Active: active}, nil
		},
	}
	h := handlers.NewRecordHandler(svc)

	body := jsonBody(t, map[string]any{"active": false})
	req := withCaller(withChiParams(
		httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/1/status", body),
		map[string]string{"id": "1"}), caller)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	requireStatus(t, rec, http.StatusOK)

	resp := decodeJSON[dto.RecordResponse](t, rec)
	if resp.Active {
		t.Error("Active = true, want false")
	}
}

func TestUpdateStatus_MissingActive(t *testing.T) {
	t.Parallel()

	h := handlers.NewRecordHandler(&fakeRecordService{})

	body := jsonBody(t, map[string]any{})
	req := withCaller(withChiParams(
		httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/1/status", body),
		map[string]string{"id": "1"}), testIdentity(1))
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestUpdateStatus_Unauthorized(t *testing.T) {
	t.Parallel()

	svc := &fakeRecordService{
		updateFn: func(context.Context, uint64, bool, domain.Identity) (*record.Record, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	h := handlers.NewRecordHandler(svc)

	body := jsonBody(t, map[string]any{"active": true})
	req := withCaller(withChiParams(
		httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/1/status", body),
		map[string]string{"id": "1"}), testIdentity(2))
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	requireStatus(t, rec, http.StatusForbidden)
}

// --- BulkUpdateStatus ---

func TestBulkUpdateStatus(t *testing.T) {
	t.Parallel()

	caller := testIdentity(1)
	svc := &fakeRecordService{
		bulkUpdateFn: func(_ context.Context, updates []ports.StatusUpdate, got domain.Identity) (*ports.BulkStatusResult, error) {
			if len(updates) != 2 || got != caller {
				t.Errorf("BulkUpdateStatus called with %d updates, caller %s", len(updates), got)
			}
			return &ports.BulkStatusResult{
				Updated: []record.Record{
					{ID: 1, Name: "one", Owner: caller, Active: false},
				},
				Errors: []ports.BulkStatusError{
					{ID: 2, Err: domain.ErrNotFound},
				},
			}, nil
		},
	}
	h := handlers.NewRecordHandler(svc)

	body := jsonBody(t, map[string]any{"updates": []map[string]any{
		{"id": 1, "active": false},
		{"id": 2, "active": false},
	}})
	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/status/bulk", body), caller)
	rec := httptest.NewRecorder()
	h.BulkUpdateStatus(rec, req)

	requireStatus(t, rec, http.StatusOK)

	resp := decodeJSON[dto.BulkStatusResponse](t, rec)
	if resp.Succeeded != 1 || resp.Failed != 1 || resp.Total != 2 {
		t.Errorf("counts = %d/%d/%d, want 1/1/2", resp.Succeeded, resp.Failed, resp.Total)
	}
}

func TestBulkUpdateStatus_EmptyBatch(t *testing.T) {
	t.Parallel()

	h := handlers.NewRecordHandler(&fakeRecordService{})

	body := jsonBody(t, map[string]any{"updates": []map[string]any{}})
	req := withCaller(httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/status/bulk", body), testIdentity(1))
	rec := httptest.NewRecorder()
	h.BulkUpdateStatus(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- Delete ---

func TestDelete(t *testing.T) {
	t.Parallel()

	caller := testIdentity(1)
	svc := &fakeRecordService{
		deleteFn: func(_ context.Context, id uint64, got domain.Identity) (uint64, error) {
			if id != 1 || got != caller {
				t.Errorf("Delete called with (%d, %s)", id, got)
			}
			return 892650, nil
		},
	}
	h := handlers.NewRecordHandler(svc)

	req := withCaller(withChiParams(
		httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/1", nil),
		map[string]string{"id": "1"}), caller)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	requireStatus(t, rec, http.StatusOK)

	resp := decodeJSON[dto.DeleteRecordResponse](t, rec)
	if resp.ID != 1 {
		t.Errorf("ID = %d, want 1", resp.ID)
	}
	if resp.DepositRefunded != 892650 {
		t.Errorf("DepositRefunded = %d, want 892650", resp.DepositRefunded)
	}
}

func TestDelete_Unauthorized(t *testing.T) {
	t.Parallel()

	svc := &fakeRecordService{
		deleteFn: func(context.Context, uint64, domain.Identity) (uint64, error) {
			return 0, domain.ErrUnauthorized
		},
	}
	h := handlers.NewRecordHandler(svc)

	req := withCaller(withChiParams(
		httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/1", nil),
		map[string]string{"id": "1"}), testIdentity(2))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	requireStatus(t, rec, http.StatusForbidden)
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	svc := &fakeRecordService{
		deleteFn: func(context.Context, uint64, domain.Identity) (uint64, error) {
			return 0, domain.ErrNotFound
		},
	}
	h := handlers.NewRecordHandler(svc)

	req := withCaller(withChiParams(
		httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/99", nil),
		map[string]string{"id": "99"}), testIdentity(1))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}
