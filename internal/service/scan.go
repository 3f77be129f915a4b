package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/store"
)

// ScanConfig holds the tunables of one scan cycle.
type ScanConfig struct {
	// DueSoonWindow is the lookahead boundary for due_soon
	// classification.
	DueSoonWindow time.Duration

	// Concurrency is the maximum number of parallel dispatches.
	// Dispatch blocks on external network I/O, so fan-out is bounded
	// rather than unbounded.
	Concurrency int

	// Deadline bounds the whole scan. Zero means no overall deadline.
	Deadline time.Duration
}

// DefaultScanConfig returns a ScanConfig with reasonable defaults.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		DueSoonWindow: domain.DefaultDueSoonWindow,
		Concurrency:   4,
		Deadline:      5 * time.Minute,
	}
}

// ScanRunner orchestrates one scan cycle: load candidate tasks, classify
// them, resolve recipients, deduplicate against the ledger, dispatch,
// and produce an aggregate run report.
//
// The runner is stateless between invocations beyond what the ledger
// persists: running the same scan twice with no intervening state change
// produces zero additional dispatches on the second run.
type ScanRunner struct {
	tasks      store.TaskReader
	resolver   *AssigneeResolver
	ledger     store.NotificationLedger
	dispatcher *Dispatcher
	cfg        ScanConfig
	logger     *slog.Logger
}

// NewScanRunner creates a ScanRunner. Invalid config values fall back to
// defaults.
func NewScanRunner(
	tasks store.TaskReader,
	resolver *AssigneeResolver,
	ledger store.NotificationLedger,
	dispatcher *Dispatcher,
	cfg ScanConfig,
	logger *slog.Logger,
) *ScanRunner {
	if cfg.DueSoonWindow <= 0 {
		cfg.DueSoonWindow = domain.DefaultDueSoonWindow
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &ScanRunner{
		tasks:      tasks,
		resolver:   resolver,
		ledger:     ledger,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger.With("component", "scan_runner"),
	}
}

// scanJob is one (task, condition, recipient reference) unit of fan-out
// work. Jobs are independent: no ordering across them is guaranteed or
// needed.
type scanJob struct {
	task      *domain.Task
	condition domain.Condition
	ref       domain.AssigneeRef
}

// RunScan executes one scan cycle evaluated at the caller-supplied
// current time and returns the aggregate report.
//
// Per-item failures (bad timestamps, unresolvable assignees, rejected
// deliveries) are counted and never abort the scan. Only a failure to
// reach the data source at all — loading tasks or reaching the ledger —
// aborts and surfaces as an error.
func (s *ScanRunner) RunScan(ctx context.Context, now time.Time) (*domain.RunReport, error) {
	if s.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Deadline)
		defer cancel()
	}

	tasks, err := s.tasks.ListDueCandidates(ctx)
	if err != nil {
		return nil, newScanError("load_tasks", err)
	}

	report := &domain.RunReport{EvaluatedAt: now}
	var mu sync.Mutex

	var jobs []scanJob
	for _, task := range tasks {
		report.TasksExamined++

		urgency, err := domain.ClassifyDue(task.DueAt, now, s.cfg.DueSoonWindow)
		if err != nil {
			// Malformed due timestamp: exclude this task, keep scanning.
			s.logger.Warn("excluding task with malformed due timestamp",
				"task_id", task.ID,
				"due_at", task.DueAt,
				"error", err)
			report.InvalidTimestamps++
			continue
		}

		condition, ok := urgency.Condition()
		if !ok {
			continue // normal tasks are skipped entirely
		}

		switch urgency {
		case domain.UrgencyDueSoon:
			report.DueSoon++
		case domain.UrgencyOverdue:
			report.Overdue++
		}

		for _, ref := range task.Assignees {
			jobs = append(jobs, scanJob{task: task, condition: condition, ref: ref})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, job := range jobs {
		g.Go(func() error {
			return s.processJob(gctx, job, now, report, &mu)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("scan completed",
		"evaluated_at", now,
		"tasks_examined", report.TasksExamined,
		"due_soon", report.DueSoon,
		"overdue", report.Overdue,
		"sent", report.Sent,
		"skipped_no_address", report.SkippedNoAddress,
		"failed", report.Failed,
		"deduplicated", report.Deduplicated,
		"resolution_misses", report.ResolutionMisses,
		"invalid_timestamps", report.InvalidTimestamps)

	return report, nil
}

// processJob handles one (task, condition, recipient) key: resolve,
// reserve, dispatch, record. The reservation happens immediately before
// dispatch so a scan deadline only ever leaves undispatched work
// unreserved, never permanently reserved.
func (s *ScanRunner) processJob(
	ctx context.Context,
	job scanJob,
	now time.Time,
	report *domain.RunReport,
	mu *sync.Mutex,
) error {
	recipient, err := s.resolver.Resolve(ctx, job.ref)
	if err != nil {
		if miss, ok := domain.AsResolutionMiss(err); ok {
			s.logger.Info("skipping unresolvable assignee",
				"task_id", job.task.ID,
				"assignee", job.ref.String(),
				"reason", miss.Reason)
		} else {
			// Lookup failed outright. The recipient still cannot be
			// determined, so count it the same way and keep going.
			s.logger.Error("assignee lookup failed",
				"task_id", job.task.ID,
				"assignee", job.ref.String(),
				"error", err)
		}
		mu.Lock()
		report.ResolutionMisses++
		mu.Unlock()
		return nil
	}

	key := domain.NotificationKey{
		SubjectType: domain.SubjectTask,
		SubjectID:   job.task.ID,
		Condition:   job.condition,
		RecipientID: recipient.ID,
	}

	reserved, err := s.ledger.TryReserve(ctx, key, now)
	if err != nil {
		return newScanError("reserve", err)
	}
	if !reserved {
		// Already notified for this condition by an earlier run, or a
		// concurrent worker won the reservation. Either way: skip.
		mu.Lock()
		report.Deduplicated++
		mu.Unlock()
		return nil
	}

	result := s.dispatcher.Dispatch(ctx, recipient, scanPayload(job.task, job.condition))

	// Record the outcome even when the scan deadline has expired: an
	// entry stuck in pending looks reserved forever and hides what
	// actually happened to the dispatch.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.ledger.RecordOutcome(recordCtx, key, result); err != nil {
		return newScanError("record_outcome", err)
	}

	mu.Lock()
	switch result.Outcome {
	case domain.OutcomeSent:
		report.Sent++
	case domain.OutcomeSkippedNoAddress:
		report.SkippedNoAddress++
	case domain.OutcomeFailed:
		report.Failed++
	}
	mu.Unlock()

	return nil
}

// scanPayload builds the notification content for a due-date condition.
func scanPayload(task *domain.Task, condition domain.Condition) Payload {
	switch condition {
	case domain.ConditionOverdue:
		return Payload{
			Subject: fmt.Sprintf("Overdue: %s", task.Title),
			Body:    fmt.Sprintf("The task %q was due at %s and is still open.", task.Title, task.DueAt),
		}
	default:
		return Payload{
			Subject: fmt.Sprintf("Due soon: %s", task.Title),
			Body:    fmt.Sprintf("The task %q is due at %s.", task.Title, task.DueAt),
		}
	}
}
