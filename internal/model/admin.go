package model

// AdminUser is one entry in the admin directory. Records are persisted as a
// JSON array in the adminUsers slot; field names follow the on-disk layout.
// Secrets live in the credential table, never on this record (see Credential).
type AdminUser struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"` // unique, case-sensitive lookup key
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"` // opaque capability tokens, carried through to the session
	Status      Status   `json:"status"`
	LastLogin   string   `json:"lastLogin,omitempty"` // date only, YYYY-MM-DD
}

// Status marks whether an account may authenticate.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Credential holds the secret material for one username. Persisted as a
// username-keyed JSON object in the adminCredentials slot. The password is
// compared verbatim at login; this system stores no hashes.
type Credential struct {
	Password string `json:"password"`
}

// DateOnly is the layout for AdminUser.LastLogin.
const DateOnly = "2006-01-02"
