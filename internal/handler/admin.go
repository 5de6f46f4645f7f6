package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/martdesk/martdesk/internal/directory"
	"github.com/martdesk/martdesk/internal/model"
	"github.com/martdesk/martdesk/internal/store"
)

// AdminHandler manages the admin-user directory: listing accounts, creating
// them, flipping their status, and rotating credentials.
type AdminHandler struct {
	dir *directory.Directory
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(dir *directory.Directory) *AdminHandler {
	return &AdminHandler{dir: dir}
}

// ListAdmins returns every directory entry.
// GET /api/v1/admin
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	users, err := h.dir.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list admins: "+err.Error())
		return
	}
	if users == nil {
		users = []model.AdminUser{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resource": users,
		"count":    len(users),
	})
}

// createAdminRequest is the payload for CreateAdmin.
type createAdminRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// CreateAdmin adds a directory entry and, when a password is supplied, its
// credential.
// POST /api/v1/admin
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}

	user := model.AdminUser{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Role:        model.Role(req.Role),
		Permissions: req.Permissions,
		Status:      model.StatusActive,
	}
	if err := h.dir.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, directory.ErrExists) {
			writeError(w, http.StatusConflict, "Username already exists: "+req.Username)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create admin: "+err.Error())
		return
	}
	if req.Password != "" {
		if err := h.dir.SetCredential(r.Context(), req.Username, req.Password); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store credential: "+err.Error())
			return
		}
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetAdmin returns one directory entry by ID.
// GET /api/v1/admin/{adminID}
func (h *AdminHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "adminID")
	user, err := h.dir.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found: "+id)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get admin: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// statusRequest is the payload for UpdateStatus.
type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus activates or deactivates an account. Deactivation does not
// clear an existing session; it only blocks future logins.
// PUT /api/v1/admin/{adminID}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "adminID")
	var req statusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	status := model.Status(req.Status)
	if status != model.StatusActive && status != model.StatusInactive {
		writeError(w, http.StatusBadRequest, "Status must be Active or Inactive")
		return
	}
	if err := h.dir.SetStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found: "+id)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update status: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// passwordRequest is the payload for UpdatePassword.
type passwordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword replaces the credential for the account's username.
// PUT /api/v1/admin/{adminID}/password
func (h *AdminHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "adminID")
	var req passwordRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}
	user, err := h.dir.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found: "+id)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get admin: "+err.Error())
		return
	}
	if err := h.dir.SetCredential(r.Context(), user.Username, req.Password); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store credential: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
