package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/platform/logger"
	"github.com/mwhitlock/taskping/internal/store"
)

func newResolverWithMock(t *testing.T) (*AssigneeResolver, *MockUserLookup) {
	t.Helper()
	log, _ := logger.NewTestLogger()
	users := &MockUserLookup{}
	return NewAssigneeResolver(users, log), users
}

func TestResolveByID(t *testing.T) {
	t.Parallel()

	resolver, users := newResolverWithMock(t)
	ctx := context.Background()

	id := uuid.New()
	want := &domain.User{ID: id, DisplayName: "Dana Q", Email: "dana@example.com"}
	users.On("GetByID", ctx, id).Return(want, nil)

	got, err := resolver.Resolve(ctx, domain.AssigneeByID(id))
	require.NoError(t, err)
	assert.Same(t, want, got)
	users.AssertExpectations(t)
}

func TestResolveByIDUnknown(t *testing.T) {
	t.Parallel()

	resolver, users := newResolverWithMock(t)
	ctx := context.Background()

	id := uuid.New()
	users.On("GetByID", ctx, id).Return(nil, store.ErrUserNotFound)

	_, err := resolver.Resolve(ctx, domain.AssigneeByID(id))
	miss, ok := domain.AsResolutionMiss(err)
	require.True(t, ok, "expected a resolution miss, got %v", err)
	assert.Equal(t, domain.MissUnknownID, miss.Reason)
}

func TestResolveByIDStoreFailure(t *testing.T) {
	t.Parallel()

	resolver, users := newResolverWithMock(t)
	ctx := context.Background()

	id := uuid.New()
	dbErr := errors.New("connection refused")
	users.On("GetByID", ctx, id).Return(nil, dbErr)

	_, err := resolver.Resolve(ctx, domain.AssigneeByID(id))
	require.Error(t, err)
	_, ok := domain.AsResolutionMiss(err)
	assert.False(t, ok, "a store failure is not a resolution miss")
	assert.ErrorIs(t, err, dbErr)
}

func TestResolveByName(t *testing.T) {
	t.Parallel()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}

	tests := []struct {
		name       string
		ref        string
		matches    []*domain.User
		wantUser   *domain.User
		wantReason domain.MissReason
	}{
		{
			name:     "exactly one match resolves",
			ref:      "Dana Q",
			matches:  []*domain.User{dana},
			wantUser: dana,
		},
		{
			name:       "zero matches is not-found",
			ref:        "Nobody",
			matches:    nil,
			wantReason: domain.MissNotFound,
		},
		{
			name: "multiple matches is ambiguous, never a guess",
			ref:  "Dana Q",
			matches: []*domain.User{
				dana,
				{ID: uuid.New(), DisplayName: "dana q"},
			},
			wantReason: domain.MissAmbiguous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver, users := newResolverWithMock(t)
			ctx := context.Background()
			users.On("FindByName", ctx, tt.ref).Return(tt.matches, nil)

			got, err := resolver.Resolve(ctx, domain.AssigneeByName(tt.ref))
			if tt.wantUser != nil {
				require.NoError(t, err)
				assert.Same(t, tt.wantUser, got)
				return
			}
			miss, ok := domain.AsResolutionMiss(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantReason, miss.Reason)
		})
	}
}

func TestResolveByNameTrimsInput(t *testing.T) {
	t.Parallel()

	resolver, users := newResolverWithMock(t)
	ctx := context.Background()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	// The lookup must receive the trimmed name.
	users.On("FindByName", ctx, "Dana Q").Return([]*domain.User{dana}, nil)

	got, err := resolver.Resolve(ctx, domain.AssigneeByName("  Dana Q \t"))
	require.NoError(t, err)
	assert.Same(t, dana, got)
	users.AssertExpectations(t)
}

func TestResolveByNameBlank(t *testing.T) {
	t.Parallel()

	resolver, _ := newResolverWithMock(t)

	_, err := resolver.Resolve(context.Background(), domain.AssigneeByName("   "))
	miss, ok := domain.AsResolutionMiss(err)
	require.True(t, ok)
	assert.Equal(t, domain.MissNotFound, miss.Reason)
}

func TestResolveUserWithoutEmailSucceeds(t *testing.T) {
	t.Parallel()

	resolver, users := newResolverWithMock(t)
	ctx := context.Background()

	// Resolution succeeding for a user with no address is what lets
	// operators tell "no address" apart from "could not resolve".
	noMail := &domain.User{ID: uuid.New(), DisplayName: "Sam"}
	users.On("GetByID", ctx, noMail.ID).Return(noMail, nil)

	got, err := resolver.Resolve(ctx, domain.AssigneeByID(noMail.ID))
	require.NoError(t, err)
	assert.False(t, got.HasEmail())
}
