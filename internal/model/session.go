package model

import "time"

// Session is the ephemeral record marking the current context as
// authenticated. It is a snapshot of the matched AdminUser at login time,
// persisted whole in the currentAdmin slot. Sessions carry no expiry and no
// integrity protection; they live until an explicit logout clears the slot.
type Session struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Permissions []string  `json:"permissions"`
	LoginTime   time.Time `json:"loginTime"`
}
