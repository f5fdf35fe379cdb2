package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/record-registry/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/record-registry/internal/domain"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/ports"
)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withCaller(r *http.Request, id domain.Identity) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), id))
}

func testIdentity(b byte) domain.Identity {
	var id domain.Identity
	id[0] = b
	return id
}

func validRecord() record.Record {
	return record.Record{
		ID:     1,
		Name:   "a record",
		Owner:  testIdentity(1),
		Active: true,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

// fakeRecordService is a hand-rolled ports.RecordService whose behavior is
// configured per test via function fields. Unset operations panic so a test
// exercising an unexpected path fails loudly.
type fakeRecordService struct {
	createFn     func(ctx context.Context, id uint64, name string, creator domain.Identity) (*record.Record, error)
	getFn        func(ctx context.Context, id uint64) (*record.Record, error)
	updateFn     func(ctx context.Context, id uint64, active bool, caller domain.Identity) (*record.Record, error)
	bulkUpdateFn func(ctx context.Context, updates []ports.StatusUpdate, caller domain.Identity) (*ports.BulkStatusResult, error)
	deleteFn     func(ctx context.Context, id uint64, caller domain.Identity) (uint64, error)
}

func (f *fakeRecordService) Create(ctx context.Context, id uint64, name string, creator domain.Identity) (*record.Record, error) {
	return f.createFn(ctx, id, name, creator)
}

func (f *fakeRecordService) Get(ctx context.Context, id uint64) (*record.Record, error) {
	return f.getFn(ctx, id)
}

func (f *fakeRecordService) UpdateStatus(ctx context.Context, id uint64, active bool, caller domain.Identity) (*record.Record, error) {
	return f.updateFn(ctx, id, active, caller)
}

func (f *fakeRecordService) BulkUpdateStatus(ctx context.Context, updates []ports.StatusUpdate, caller domain.Identity) (*ports.BulkStatusResult, error) {
	return f.bulkUpdateFn(ctx, updates, caller)
}

func (f *fakeRecordService) Delete(ctx context.Context, id uint64, caller domain.Identity) (uint64, error) {
	return f.deleteFn(ctx, id, caller)
}

// fakeRegistry is a hand-rolled ports.HealthRegistry returning fixed results.
type fakeRegistry struct {
	results map[string]error
}

func (f *fakeRegistry) Register(ports.HealthChecker) {}

func (f *fakeRegistry) CheckAll(context.Context) map[string]error {
	return f.results
}
