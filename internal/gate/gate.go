// Package gate implements the session gate: credential checks against the
// admin directory, the persisted current session, and role-based dispatch.
package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/martdesk/martdesk/internal/directory"
	"github.com/martdesk/martdesk/internal/model"
	"github.com/martdesk/martdesk/internal/store"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two are deliberately indistinguishable so callers can't
	// probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDeactivated is returned for a known username whose account
	// is inactive, regardless of the supplied password.
	ErrAccountDeactivated = errors.New("account deactivated")
)

// Gate authenticates admin users and owns the persisted current session.
// All session-state mutation goes through it.
type Gate struct {
	store store.Store
	dir   *directory.Directory
}

// New constructs a Gate over the given store.
func New(st store.Store) *Gate {
	return &Gate{store: st, dir: directory.New(st)}
}

// Directory exposes the gate's directory view for account administration.
func (g *Gate) Directory() *directory.Directory {
	return g.dir
}

// Authenticate checks a username/password pair against the directory and
// credential table, short-circuiting on the first failure. On success it
// stamps the matched user's lastLogin with the current date, persists a
// session snapshot as the current session, and returns that snapshot.
//
// Errors other than ErrInvalidCredentials and ErrAccountDeactivated indicate
// a store or decode fault and are reported generically at the API boundary.
func (g *Gate) Authenticate(ctx context.Context, username, password string) (*model.Session, error) {
	user, err := g.dir.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	if user.Status != model.StatusActive {
		return nil, ErrAccountDeactivated
	}

	cred, err := g.dir.Credential(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up credential: %w", err)
	}
	if cred.Password != password {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = now.Format(model.DateOnly)
	if err := g.dir.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}

	sess := model.Session{
		ID:          user.ID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: user.Permissions,
		LoginTime:   now.UTC(),
	}
	if err := g.saveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &sess, nil
}

// RestoreSession returns the persisted current session, or nil when the
// context is unauthenticated. A present session means the caller skips the
// login surface and goes straight to RouteForRole(session.Role).
func (g *Gate) RestoreSession(ctx context.Context) (*model.Session, error) {
	data, err := g.store.Get(ctx, store.SlotCurrentAdmin)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Logout clears the current session. Logging out twice is a no-op; the
// directory and credential table are never touched.
func (g *Gate) Logout(ctx context.Context) error {
	return g.store.Delete(ctx, store.SlotCurrentAdmin)
}

func (g *Gate) saveSession(ctx context.Context, sess model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return g.store.Set(ctx, store.SlotCurrentAdmin, data)
}

// RouteForRole maps a role to its dashboard. It is total: unrecognized or
// empty roles land on the generic admin dashboard, never an error.
func RouteForRole(role model.Role) model.Destination {
	switch role {
	case model.RoleSuperAdmin:
		return model.DestSuperAdmin
	case model.RoleOrderAdmin:
		return model.DestOrderAdmin
	case model.RoleFinanceAdmin:
		return model.DestFinanceAdmin
	case model.RoleProductAdmin:
		return model.DestProductAdmin
	default:
		return model.DestAdminDashboard
	}
}
