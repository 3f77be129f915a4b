package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/store"
)

// MockUserLookup is a testify mock of the UserLookup interface.
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserLookup) FindByName(ctx context.Context, name string) ([]*domain.User, error) {
	args := m.Called(ctx, name)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

// fakeUserStore is a map-backed user read model for pipeline tests.
type fakeUserStore struct {
	users []*domain.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) FindByName(ctx context.Context, name string) ([]*domain.User, error) {
	var matches []*domain.User
	for _, u := range f.users {
		if strings.EqualFold(strings.TrimSpace(u.DisplayName), name) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}

// fakeTaskReader serves a fixed candidate list.
type fakeTaskReader struct {
	tasks []*domain.Task
	err   error
}

func (f *fakeTaskReader) ListDueCandidates(ctx context.Context) ([]*domain.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

// fakeLedger is an in-memory notification ledger with the same
// first-writer-wins semantics as the real implementations.
type fakeLedger struct {
	mu         sync.Mutex
	entries    map[domain.NotificationKey]domain.DispatchResult
	reserveErr error
	recordErr  error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[domain.NotificationKey]domain.DispatchResult)}
}

func (f *fakeLedger) TryReserve(ctx context.Context, key domain.NotificationKey, now time.Time) (bool, error) {
	if f.reserveErr != nil {
		return false, f.reserveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.entries[key]; exists {
		return false, nil
	}
	f.entries[key] = domain.DispatchResult{Outcome: domain.OutcomePending}
	return true, nil
}

func (f *fakeLedger) RecordOutcome(ctx context.Context, key domain.NotificationKey, result domain.DispatchResult) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = result
	return nil
}

func (f *fakeLedger) outcome(key domain.NotificationKey) (domain.Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.entries[key]
	return r.Outcome, ok
}

// fakeChannel records sends and can be told to fail or panic.
type fakeChannel struct {
	mu          sync.Mutex
	sent        []sentMessage
	err         error
	panicOnSend bool
}

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

func (f *fakeChannel) Send(ctx context.Context, to, subject, body string) (string, error) {
	if f.panicOnSend {
		panic("channel exploded")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{To: to, Subject: subject, Body: body})
	return uuid.NewString(), nil
}

func (f *fakeChannel) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
