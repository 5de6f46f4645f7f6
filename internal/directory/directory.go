// Package directory maintains the admin-user directory and its credential
// table on top of the slot store. Every mutation rewrites the owning blob
// whole; the single-writer contract of the store makes that safe.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/martdesk/martdesk/internal/model"
	"github.com/martdesk/martdesk/internal/store"
)

// ErrExists is returned when creating a user whose username is already taken.
var ErrExists = errors.New("username already exists")

// Directory provides typed access to the adminUsers and adminCredentials
// slots.
type Directory struct {
	store store.Store
}

// New constructs a Directory over the given store.
func New(st store.Store) *Directory {
	return &Directory{store: st}
}

// Users returns all directory entries in stored order. An absent slot is an
// empty directory, not an error.
func (d *Directory) Users(ctx context.Context) ([]model.AdminUser, error) {
	data, err := d.store.Get(ctx, store.SlotAdminUsers)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var users []model.AdminUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode admin directory: %w", err)
	}
	return users, nil
}

// SaveUsers replaces the whole directory.
func (d *Directory) SaveUsers(ctx context.Context, users []model.AdminUser) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode admin directory: %w", err)
	}
	return d.store.Set(ctx, store.SlotAdminUsers, data)
}

// FindByUsername returns the directory entry whose username matches exactly
// (case-sensitive). If duplicates exist the first match in stored order wins.
// Returns store.ErrNotFound when no entry matches.
func (d *Directory) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	users, err := d.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// FindByID returns the directory entry with the given ID, or store.ErrNotFound.
func (d *Directory) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	users, err := d.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// CreateUser appends a new entry to the directory. The ID is assigned here;
// the username must not already be present.
func (d *Directory) CreateUser(ctx context.Context, user *model.AdminUser) error {
	users, err := d.Users(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == user.Username {
			return ErrExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = model.StatusActive
	}
	return d.SaveUsers(ctx, append(users, *user))
}

// UpdateUser replaces the directory entry with the same ID. Returns
// store.ErrNotFound if no entry has that ID.
func (d *Directory) UpdateUser(ctx context.Context, user model.AdminUser) error {
	users, err := d.Users(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user
			return d.SaveUsers(ctx, users)
		}
	}
	return store.ErrNotFound
}

// SetStatus flips the Active/Inactive flag on the entry with the given ID.
func (d *Directory) SetStatus(ctx context.Context, id string, status model.Status) error {
	user, err := d.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Status = status
	return d.UpdateUser(ctx, *user)
}

// Credentials returns the full username -> secret mapping. An absent slot is
// an empty mapping.
func (d *Directory) Credentials(ctx context.Context) (map[string]model.Credential, error) {
	data, err := d.store.Get(ctx, store.SlotAdminCredentials)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return map[string]model.Credential{}, nil
		}
		return nil, err
	}
	var creds map[string]model.Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("decode credential table: %w", err)
	}
	if creds == nil {
		creds = map[string]model.Credential{}
	}
	return creds, nil
}

// Credential returns the secret for one username, or store.ErrNotFound. A
// directory entry without a credential is tolerated; callers treat the miss
// as an authentication failure.
func (d *Directory) Credential(ctx context.Context, username string) (*model.Credential, error) {
	creds, err := d.Credentials(ctx)
	if err != nil {
		return nil, err
	}
	cred, ok := creds[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &cred, nil
}

// SetCredential stores the secret for one username, replacing any previous
// value.
func (d *Directory) SetCredential(ctx context.Context, username, password string) error {
	creds, err := d.Credentials(ctx)
	if err != nil {
		return err
	}
	creds[username] = model.Credential{Password: password}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credential table: %w", err)
	}
	return d.store.Set(ctx, store.SlotAdminCredentials, data)
}
