package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user of the task tracker as seen by the
// notification engine. The engine only reads users; account management
// belongs to an external subsystem.
//
// Email is optional. A user without an email address is a valid terminal
// state: notifications addressed to them are skipped and counted, never
// retried.
type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasEmail reports whether the user has a deliverable address on file.
func (u *User) HasEmail() bool {
	return u.Email != ""
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.DisplayName == "" {
		return ErrEmptyDisplayName
	}
	return nil
}
