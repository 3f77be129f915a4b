package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskping/internal/domain"
)

// UserStore defines read access to the user model. The engine resolves
// notification recipients through it and never writes users.
type UserStore interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindByName retrieves every user whose display name matches the
	// given name, compared case-insensitively against the stored name
	// with surrounding whitespace ignored. The caller is expected to
	// have trimmed the input. Zero matches is not an error: the result
	// is simply empty.
	FindByName(ctx context.Context, name string) ([]*domain.User, error)
}
