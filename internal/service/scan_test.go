package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/platform/logger"
)

var scanNow = time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

func dueIn(d time.Duration) string {
	return scanNow.Add(d).Format(time.RFC3339)
}

type scanFixture struct {
	runner  *ScanRunner
	tasks   *fakeTaskReader
	ledger  *fakeLedger
	channel *fakeChannel
	users   *fakeUserStore
}

func newScanFixture(t *testing.T, tasks []*domain.Task, users []*domain.User) *scanFixture {
	t.Helper()

	log, _ := logger.NewTestLogger()
	f := &scanFixture{
		tasks:   &fakeTaskReader{tasks: tasks},
		ledger:  newFakeLedger(),
		channel: &fakeChannel{},
		users:   &fakeUserStore{users: users},
	}
	resolver := NewAssigneeResolver(f.users, log)
	dispatcher := NewDispatcher(f.channel, time.Second, log)
	f.runner = NewScanRunner(f.tasks, resolver, f.ledger, dispatcher, ScanConfig{
		DueSoonWindow: 24 * time.Hour,
		Concurrency:   3,
		Deadline:      time.Minute,
	}, log)
	return f
}

func TestRunScanClassifiesAndDispatches(t *testing.T) {
	t.Parallel()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	sam := &domain.User{ID: uuid.New(), DisplayName: "Sam", Email: "sam@example.com"}

	tasks := []*domain.Task{
		{ID: uuid.New(), Title: "ship report", DueAt: dueIn(3 * time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(dana.ID)}},
		{ID: uuid.New(), Title: "review budget", DueAt: dueIn(-2 * time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(sam.ID)}},
		{ID: uuid.New(), Title: "plan offsite", DueAt: dueIn(30 * 24 * time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(dana.ID)}},
	}

	f := newScanFixture(t, tasks, []*domain.User{dana, sam})

	report, err := f.runner.RunScan(context.Background(), scanNow)
	require.NoError(t, err)

	assert.Equal(t, scanNow, report.EvaluatedAt)
	assert.Equal(t, 3, report.TasksExamined)
	assert.Equal(t, 1, report.DueSoon)
	assert.Equal(t, 1, report.Overdue)
	assert.Equal(t, 2, report.Sent)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Deduplicated)
	assert.Equal(t, 2, f.channel.sentCount(), "the far-future task must not dispatch")
}

func TestRunScanIsIdempotent(t *testing.T) {
	t.Parallel()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	tasks := []*domain.Task{
		{ID: uuid.New(), Title: "ship report", DueAt: dueIn(-time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(dana.ID)}},
	}

	f := newScanFixture(t, tasks, []*domain.User{dana})
	ctx := context.Background()

	first, err := f.runner.RunScan(ctx, scanNow)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sent)
	assert.Zero(t, first.Deduplicated)

	second, err := f.runner.RunScan(ctx, scanNow)
	require.NoError(t, err)
	assert.Zero(t, second.Sent, "second run must not re-dispatch")
	assert.Equal(t, 1, second.Deduplicated)
	assert.Equal(t, 1, f.channel.sentCount())
}

func TestRunScanMixedRecipients(t *testing.T) {
	t.Parallel()

	withMail := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	noMail := &domain.User{ID: uuid.New(), DisplayName: "Sam"}

	tasks := []*domain.Task{
		{ID: uuid.New(), Title: "ship report", DueAt: dueIn(2 * time.Hour),
			Assignees: []domain.AssigneeRef{
				domain.AssigneeByID(withMail.ID),
				domain.AssigneeByID(noMail.ID),
			}},
	}

	f := newScanFixture(t, tasks, []*domain.User{withMail, noMail})

	report, err := f.runner.RunScan(context.Background(), scanNow)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.SkippedNoAddress)
	assert.Zero(t, report.Failed)

	// The skip is still recorded in the ledger so it is not retried.
	key := domain.NotificationKey{
		SubjectType: domain.SubjectTask,
		SubjectID:   tasks[0].ID,
		Condition:   domain.ConditionDueSoon,
		RecipientID: noMail.ID,
	}
	outcome, ok := f.ledger.outcome(key)
	require.True(t, ok)
	assert.Equal(t, domain.OutcomeSkippedNoAddress, outcome)
}

func TestRunScanInvalidTimestampIsolation(t *testing.T) {
	t.Parallel()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	tasks := []*domain.Task{
		{ID: uuid.New(), Title: "broken row", DueAt: "next tuesday",
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(dana.ID)}},
		{ID: uuid.New(), Title: "ship report", DueAt: dueIn(-time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(dana.ID)}},
	}

	f := newScanFixture(t, tasks, []*domain.User{dana})

	report, err := f.runner.RunScan(context.Background(), scanNow)
	require.NoError(t, err, "one malformed task must not fail the scan")

	assert.Equal(t, 2, report.TasksExamined)
	assert.Equal(t, 1, report.InvalidTimestamps)
	assert.Equal(t, 1, report.Sent, "the healthy task still dispatches")
}

func TestRunScanResolutionMisses(t *testing.T) {
	t.Parallel()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	dupA := &domain.User{ID: uuid.New(), DisplayName: "Alex", Email: "a1@example.com"}
	dupB := &domain.User{ID: uuid.New(), DisplayName: "alex", Email: "a2@example.com"}

	tasks := []*domain.Task{
		{ID: uuid.New(), Title: "ship report", DueAt: dueIn(time.Hour),
			Assignees: []domain.AssigneeRef{
				domain.AssigneeByID(uuid.New()),     // unknown id
				domain.AssigneeByName("ghost"),      // no such name
				domain.AssigneeByName("Alex"),       // ambiguous
				domain.AssigneeByName("  Dana Q  "), // legacy form, resolves
			}},
	}

	f := newScanFixture(t, tasks, []*domain.User{dana, dupA, dupB})

	report, err := f.runner.RunScan(context.Background(), scanNow)
	require.NoError(t, err)

	assert.Equal(t, 3, report.ResolutionMisses)
	assert.Equal(t, 1, report.Sent)
	require.Equal(t, 1, f.channel.sentCount())
	assert.Equal(t, "dana@example.com", f.channel.sent[0].To)
}

func TestRunScanDistinctConditionsAreDistinctKeys(t *testing.T) {
	t.Parallel()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	taskID := uuid.New()
	f := newScanFixture(t, []*domain.Task{
		{ID: taskID, Title: "slipping task", DueAt: dueIn(time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(dana.ID)}},
	}, []*domain.User{dana})

	report, err := f.runner.RunScan(context.Background(), scanNow)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	// The task slips past its due date: the overdue condition is a new
	// logical event and notifies again, while due_soon stays deduplicated.
	f.tasks.tasks[0].DueAt = dueIn(-time.Hour)
	report, err = f.runner.RunScan(context.Background(), scanNow)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 2, f.channel.sentCount())
}

func TestRunScanLoadFailureAborts(t *testing.T) {
	t.Parallel()

	f := newScanFixture(t, nil, nil)
	f.tasks.err = errors.New("connection refused")

	_, err := f.runner.RunScan(context.Background(), scanNow)
	require.Error(t, err)

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "load_tasks", scanErr.Operation)
}

func TestRunScanLedgerFailureAborts(t *testing.T) {
	t.Parallel()

	dana := &domain.User{ID: uuid.New(), DisplayName: "Dana Q", Email: "dana@example.com"}
	f := newScanFixture(t, []*domain.Task{
		{ID: uuid.New(), Title: "ship report", DueAt: dueIn(time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(dana.ID)}},
	}, []*domain.User{dana})
	f.ledger.reserveErr = errors.New("ledger store unreachable")

	_, err := f.runner.RunScan(context.Background(), scanNow)
	require.Error(t, err)

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, "reserve", scanErr.Operation)
}

func TestRunScanBoundedFanOut(t *testing.T) {
	t.Parallel()

	users := make([]*domain.User, 0, 20)
	tasks := make([]*domain.Task, 0, 20)
	for i := 0; i < 20; i++ {
		u := &domain.User{ID: uuid.New(), DisplayName: uuid.NewString(), Email: "u@example.com"}
		users = append(users, u)
		tasks = append(tasks, &domain.Task{
			ID: uuid.New(), Title: "t", DueAt: dueIn(time.Hour),
			Assignees: []domain.AssigneeRef{domain.AssigneeByID(u.ID)},
		})
	}

	f := newScanFixture(t, tasks, users)

	report, err := f.runner.RunScan(context.Background(), scanNow)
	require.NoError(t, err)
	assert.Equal(t, 20, report.Sent)
	assert.Equal(t, 20, f.channel.sentCount())
}
