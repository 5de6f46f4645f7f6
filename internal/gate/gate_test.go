package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/martdesk/martdesk/internal/model"
	"github.com/martdesk/martdesk/internal/store"
)

func newTestGate(t *testing.T) (*Gate, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return New(st), st
}

// seedUser creates a directory entry plus its credential.
func seedUser(t *testing.T, g *Gate, user model.AdminUser, password string) model.AdminUser {
	t.Helper()
	ctx := context.Background()
	if err := g.Directory().CreateUser(ctx, &user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if password != "" {
		if err := g.Directory().SetCredential(ctx, user.Username, password); err != nil {
			t.Fatalf("SetCredential: %v", err)
		}
	}
	return user
}

func TestAuthenticateSuccess(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()
	seedUser(t, g, model.AdminUser{
		Username:    "alice",
		FirstName:   "Alice",
		LastName:    "Ng",
		Email:       "alice@example.com",
		Role:        model.RoleOrderAdmin,
		Permissions: []string{"orders:read", "orders:write"},
		Status:      model.StatusActive,
	}, "p1")

	sess, err := g.Authenticate(ctx, "alice", "p1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if sess.Role != model.RoleOrderAdmin {
		t.Errorf("role = %q, want Order Admin", sess.Role)
	}
	if sess.Username != "alice" || sess.FirstName != "Alice" || sess.Email != "alice@example.com" {
		t.Errorf("session does not mirror the user: %+v", sess)
	}
	if len(sess.Permissions) != 2 {
		t.Errorf("permissions not carried through: %v", sess.Permissions)
	}
	if sess.LoginTime.IsZero() {
		t.Error("loginTime not set")
	}

	// lastLogin stamped with the current date, date-only.
	user, err := g.Directory().FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if want := time.Now().Format(model.DateOnly); user.LastLogin != want {
		t.Errorf("lastLogin = %q, want %q", user.LastLogin, want)
	}

	// Session persisted: restore returns the same snapshot.
	restored, err := g.RestoreSession(ctx)
	if err != nil {
		t.Fatalf("RestoreSession: %v", err)
	}
	if restored == nil || restored.ID != sess.ID || restored.Username != "alice" {
		t.Errorf("restored session mismatch: %+v", restored)
	}
}

func TestAuthenticateUnknownUsername(t *testing.T) {
	g, _ := newTestGate(t)
	seedUser(t, g, model.AdminUser{Username: "alice", Status: model.StatusActive}, "p1")

	_, err := g.Authenticate(context.Background(), "bob", "x")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown username: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	g, _ := newTestGate(t)
	seedUser(t, g, model.AdminUser{Username: "alice", Status: model.StatusActive}, "p1")

	_, err := g.Authenticate(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	// A failed attempt must not establish a session.
	sess, _ := g.RestoreSession(context.Background())
	if sess != nil {
		t.Error("session exists after failed login")
	}
}

func TestAuthenticateDeactivated(t *testing.T) {
	g, _ := newTestGate(t)
	seedUser(t, g, model.AdminUser{Username: "alice", Status: model.StatusInactive}, "p1")

	// Deactivation wins over the password check either way.
	_, err := g.Authenticate(context.Background(), "alice", "p1")
	if !errors.Is(err, ErrAccountDeactivated) {
		t.Errorf("correct password: got %v, want ErrAccountDeactivated", err)
	}
	_, err = g.Authenticate(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrAccountDeactivated) {
		t.Errorf("wrong password: got %v, want ErrAccountDeactivated", err)
	}
}

func TestAuthenticateMissingCredential(t *testing.T) {
	g, _ := newTestGate(t)
	// Active user, no credential entry: tolerated, treated as auth failure.
	seedUser(t, g, model.AdminUser{Username: "alice", Status: model.StatusActive}, "")

	_, err := g.Authenticate(context.Background(), "alice", "anything")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("missing credential: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateCaseSensitive(t *testing.T) {
	g, _ := newTestGate(t)
	seedUser(t, g, model.AdminUser{Username: "Alice", Status: model.StatusActive}, "p1")

	_, err := g.Authenticate(context.Background(), "alice", "p1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("case-insensitive match should fail: got %v", err)
	}
}

func TestAuthenticateStoreFault(t *testing.T) {
	g, st := newTestGate(t)
	st.FailSlot = store.SlotAdminUsers
	st.FailErr = errors.New("storage unavailable")

	_, err := g.Authenticate(context.Background(), "alice", "p1")
	if err == nil || errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAccountDeactivated) {
		t.Errorf("store fault should surface as unexpected error, got %v", err)
	}
}

func TestRestoreLogoutRestore(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()
	seedUser(t, g, model.AdminUser{Username: "alice", Role: model.RoleSuperAdmin, Status: model.StatusActive}, "p1")

	// No session yet.
	sess, err := g.RestoreSession(ctx)
	if err != nil {
		t.Fatalf("RestoreSession: %v", err)
	}
	if sess != nil {
		t.Fatal("expected no session before login")
	}

	if _, err := g.Authenticate(ctx, "alice", "p1"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	sess, _ = g.RestoreSession(ctx)
	if sess == nil {
		t.Fatal("expected session after login")
	}

	if err := g.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	sess, err = g.RestoreSession(ctx)
	if err != nil {
		t.Fatalf("RestoreSession after logout: %v", err)
	}
	if sess != nil {
		t.Error("session survives logout")
	}

	// Logging out twice is a no-op.
	if err := g.Logout(ctx); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestLogoutLeavesDirectoryAlone(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()
	seedUser(t, g, model.AdminUser{Username: "alice", Status: model.StatusActive}, "p1")

	g.Authenticate(ctx, "alice", "p1")
	g.Logout(ctx)

	if _, err := g.Directory().FindByUsername(ctx, "alice"); err != nil {
		t.Errorf("logout touched the directory: %v", err)
	}
	if cred, err := g.Directory().Credential(ctx, "alice"); err != nil || cred.Password != "p1" {
		t.Errorf("logout touched the credential table: %v", err)
	}
}

func TestRestoreSessionMalformed(t *testing.T) {
	g, st := newTestGate(t)
	st.Set(context.Background(), store.SlotCurrentAdmin, []byte(`{broken`))

	if _, err := g.RestoreSession(context.Background()); err == nil {
		t.Error("expected error for malformed session blob")
	}
}

func TestRouteForRoleTotal(t *testing.T) {
	tests := []struct {
		role model.Role
		want model.Destination
	}{
		{model.RoleSuperAdmin, model.DestSuperAdmin},
		{model.RoleOrderAdmin, model.DestOrderAdmin},
		{model.RoleFinanceAdmin, model.DestFinanceAdmin},
		{model.RoleProductAdmin, model.DestProductAdmin},
		{"", model.DestAdminDashboard},
		{"Warehouse Admin", model.DestAdminDashboard},
		{"super admin", model.DestAdminDashboard}, // roles are case-sensitive too
	}
	for _, tt := range tests {
		if got := RouteForRole(tt.role); got != tt.want {
			t.Errorf("RouteForRole(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

// TestLoginScenario walks the documented end-to-end scenario: one Order
// Admin account, good and bad logins, then deactivation.
func TestLoginScenario(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()
	alice := seedUser(t, g, model.AdminUser{
		Username: "alice",
		Role:     model.RoleOrderAdmin,
		Status:   model.StatusActive,
	}, "p1")

	sess, err := g.Authenticate(ctx, "alice", "p1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if sess.Role != "Order Admin" {
		t.Errorf("role = %q, want %q", sess.Role, "Order Admin")
	}
	if dest := RouteForRole(sess.Role); dest != model.DestOrderAdmin {
		t.Errorf("destination = %q, want order-admin dashboard", dest)
	}

	if _, err := g.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := g.Authenticate(ctx, "bob", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}

	if err := g.Directory().SetStatus(ctx, alice.ID, model.StatusInactive); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, err := g.Authenticate(ctx, "alice", "p1"); !errors.Is(err, ErrAccountDeactivated) {
		t.Errorf("deactivated: got %v", err)
	}
}

// Duplicate usernames are not guarded against in stored blobs; the first
// entry in array order is the one that authenticates.
func TestAuthenticateFirstMatchWins(t *testing.T) {
	g, _ := newTestGate(t)
	ctx := context.Background()
	dir := g.Directory()

	users := []model.AdminUser{
		{ID: "1", Username: "dup", Role: model.RoleFinanceAdmin, Status: model.StatusActive},
		{ID: "2", Username: "dup", Role: model.RoleProductAdmin, Status: model.StatusActive},
	}
	if err := dir.SaveUsers(ctx, users); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}
	if err := dir.SetCredential(ctx, "dup", "pw"); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}

	sess, err := g.Authenticate(ctx, "dup", "pw")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if sess.ID != "1" || sess.Role != model.RoleFinanceAdmin {
		t.Errorf("expected first entry to win, got %+v", sess)
	}
}
