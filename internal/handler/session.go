package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/martdesk/martdesk/internal/gate"
	"github.com/martdesk/martdesk/internal/model"
)

// Error messages surfaced to the login form. Unknown username and wrong
// password share one message on purpose; deactivated accounts get their own.
const (
	msgInvalidCredentials = "Invalid username or password"
	msgAccountDeactivated = "Your account has been deactivated. Please contact an administrator."
	msgUnexpectedFault    = "Something went wrong. Please try again."
)

// SessionHandler exposes the session gate over HTTP: login, restore, logout.
type SessionHandler struct {
	gate   *gate.Gate
	logger *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(g *gate.Gate, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{gate: g, logger: logger}
}

// loginRequest is the expected payload for the Login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin and returns the session plus the dashboard
// destination for the admin's role.
// POST /api/v1/session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	sess, err := h.gate.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, gate.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		case errors.Is(err, gate.ErrAccountDeactivated):
			writeError(w, http.StatusForbidden, msgAccountDeactivated)
		default:
			h.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, msgUnexpectedFault)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.SessionResponse{
		Destination: gate.RouteForRole(sess.Role),
		Session:     *sess,
	})
}

// Restore returns the persisted current session, if any, so an already
// authenticated caller never sees the login form. 204 means "show the form".
// GET /api/v1/session
func (h *SessionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	sess, err := h.gate.RestoreSession(r.Context())
	if err != nil {
		h.logger.Error("restore session failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgUnexpectedFault)
		return
	}
	if sess == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, model.SessionResponse{
		Destination: gate.RouteForRole(sess.Role),
		Session:     *sess,
	})
}

// Logout clears the current session. Always succeeds; logging out with no
// active session is a no-op.
// DELETE /api/v1/session
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgUnexpectedFault)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Session cleared",
	})
}
