package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/martdesk/martdesk/internal/gate"
	"github.com/martdesk/martdesk/internal/model"
	"github.com/martdesk/martdesk/internal/store"
)

const testPassword = "p1"

// testEnv holds shared state for handler tests.
type testEnv struct {
	store  *store.MemoryStore
	gate   *gate.Gate
	router chi.Router
}

// newTestEnv creates a fresh environment with an in-memory store and a chi
// router with all routes mounted (no auth middleware, handlers are exercised
// directly).
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemoryStore()
	g := gate.New(st)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessionHandler := NewSessionHandler(g, logger)
	adminHandler := NewAdminHandler(g.Directory())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", sessionHandler.Login)
		r.Get("/session", sessionHandler.Restore)
		r.Delete("/session", sessionHandler.Logout)

		r.Get("/admin", adminHandler.ListAdmins)
		r.Post("/admin", adminHandler.CreateAdmin)
		r.Get("/admin/{adminID}", adminHandler.GetAdmin)
		r.Put("/admin/{adminID}/status", adminHandler.UpdateStatus)
		r.Put("/admin/{adminID}/password", adminHandler.UpdatePassword)
	})

	return &testEnv{store: st, gate: g, router: r}
}

// seedAdmin creates a default Order Admin account with a credential.
func (e *testEnv) seedAdmin(t *testing.T) model.AdminUser {
	t.Helper()
	user := model.AdminUser{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Ng",
		Email:     "alice@example.com",
		Role:      model.RoleOrderAdmin,
		Status:    model.StatusActive,
	}
	dir := e.gate.Directory()
	if err := dir.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("seedAdmin: %v", err)
	}
	if err := dir.SetCredential(context.Background(), user.Username, testPassword); err != nil {
		t.Fatalf("seedAdmin credential: %v", err)
	}
	return user
}

// do executes an HTTP request against the test router.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func toJSON(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("toJSON: %v", err)
	}
	return buf
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rr.Code, want, rr.Body.String())
	}
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decodeJSON: %v; body = %s", err, rr.Body.String())
	}
}
