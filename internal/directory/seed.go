package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/martdesk/martdesk/internal/model"
)

// SeedFile is the top-level layout of a directory seed file.
type SeedFile struct {
	Admins []SeedAdmin `yaml:"admins"`
}

// SeedAdmin defines one admin account in a seed file. Password is the only
// field that does not land in the directory itself; it goes to the
// credential table.
type SeedAdmin struct {
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	FirstName   string   `yaml:"first_name"`
	LastName    string   `yaml:"last_name"`
	Email       string   `yaml:"email"`
	Role        string   `yaml:"role"`
	Permissions []string `yaml:"permissions"`
	Status      string   `yaml:"status"`
}

// LoadSeedFile parses a YAML seed file from disk.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}

// Seed imports accounts from a seed file into the directory and credential
// table. Existing usernames are skipped, not overwritten; the number of
// accounts actually created is returned.
func (d *Directory) Seed(ctx context.Context, seed *SeedFile) (int, error) {
	created := 0
	for i, a := range seed.Admins {
		if a.Username == "" {
			return created, fmt.Errorf("seed entry %d: username is required", i)
		}
		status := model.Status(a.Status)
		if status == "" {
			status = model.StatusActive
		}
		user := model.AdminUser{
			Username:    a.Username,
			FirstName:   a.FirstName,
			LastName:    a.LastName,
			Email:       a.Email,
			Role:        model.Role(a.Role),
			Permissions: a.Permissions,
			Status:      status,
		}
		if err := d.CreateUser(ctx, &user); err != nil {
			if err == ErrExists {
				continue
			}
			return created, fmt.Errorf("seed %q: %w", a.Username, err)
		}
		if a.Password != "" {
			if err := d.SetCredential(ctx, a.Username, a.Password); err != nil {
				return created, fmt.Errorf("seed credential for %q: %w", a.Username, err)
			}
		}
		created++
	}
	return created, nil
}
