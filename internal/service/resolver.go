package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/store"
)

// UserLookup is the slice of the user read model the resolver needs.
type UserLookup interface {
	// GetByID retrieves a user by ID; store.ErrUserNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindByName retrieves all users matching a trimmed display name,
	// case-insensitively.
	FindByName(ctx context.Context, name string) ([]*domain.User, error)
}

// AssigneeResolver maps an assignee reference to a concrete user.
// It is the single place where identity ambiguity is resolved: every
// outcome is either a user or a typed ResolutionMiss, never a guess and
// never a bare nil.
type AssigneeResolver struct {
	users  UserLookup
	logger *slog.Logger
}

// NewAssigneeResolver creates an AssigneeResolver over the given user
// lookup.
func NewAssigneeResolver(users UserLookup, logger *slog.Logger) *AssigneeResolver {
	return &AssigneeResolver{
		users:  users,
		logger: logger.With("component", "assignee_resolver"),
	}
}

// Resolve maps ref to a user. A failure to determine the recipient is
// returned as a *domain.ResolutionMiss (check with
// domain.AsResolutionMiss); any other error is a store failure.
//
// A resolved user with no email address is returned successfully:
// resolution succeeded, and it is the dispatcher's job to decide the
// address is unusable.
func (r *AssigneeResolver) Resolve(ctx context.Context, ref domain.AssigneeRef) (*domain.User, error) {
	if ref.IsID() {
		return r.resolveByID(ctx, ref)
	}
	return r.resolveByName(ctx, ref)
}

func (r *AssigneeResolver) resolveByID(ctx context.Context, ref domain.AssigneeRef) (*domain.User, error) {
	user, err := r.users.GetByID(ctx, ref.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Identifier references are expected to always resolve, so
			// a miss here points at a data-integrity problem.
			r.logger.Warn("assignee ID does not resolve to any user",
				"user_id", ref.UserID)
			return nil, &domain.ResolutionMiss{Ref: ref, Reason: domain.MissUnknownID}
		}
		return nil, fmt.Errorf("looking up assignee by ID: %w", err)
	}
	return user, nil
}

func (r *AssigneeResolver) resolveByName(ctx context.Context, ref domain.AssigneeRef) (*domain.User, error) {
	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return nil, &domain.ResolutionMiss{Ref: ref, Reason: domain.MissNotFound}
	}

	matches, err := r.users.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up assignee by name: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, &domain.ResolutionMiss{Ref: ref, Reason: domain.MissNotFound}
	case 1:
		return matches[0], nil
	default:
		// More than one user shares the name. Guessing would notify the
		// wrong person, so this is always a miss.
		r.logger.Warn("assignee name is ambiguous",
			"name", name,
			"match_count", len(matches))
		return nil, &domain.ResolutionMiss{Ref: ref, Reason: domain.MissAmbiguous}
	}
}
