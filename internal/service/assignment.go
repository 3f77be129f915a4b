package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskping/internal/domain"
)

// AssignmentNotifier is the synchronous counterpart of the scan runner,
// invoked by the task/subtask mutation path immediately after an
// assignment write commits.
//
// Assignment notifications are one-shot events tied to a mutation, not a
// recurring condition, so the notifier does not consult the ledger:
// there is no deduplication key, and callers must invoke it at most once
// per assignment mutation.
type AssignmentNotifier struct {
	resolver   *AssigneeResolver
	dispatcher *Dispatcher
	timeout    time.Duration
	logger     *slog.Logger
}

// NewAssignmentNotifier creates an AssignmentNotifier. timeout bounds
// the whole notify call; it runs on the user's request path, so it
// should be short.
func NewAssignmentNotifier(
	resolver *AssigneeResolver,
	dispatcher *Dispatcher,
	timeout time.Duration,
	logger *slog.Logger,
) *AssignmentNotifier {
	return &AssignmentNotifier{
		resolver:   resolver,
		dispatcher: dispatcher,
		timeout:    timeout,
		logger:     logger.With("component", "assignment_notifier"),
	}
}

// NotifyAssignment resolves the new assignee and dispatches an
// assignment notification.
//
// If the resolved recipient is the acting user, the notification is
// suppressed with outcome skipped-self: people do not need email about
// assigning work to themselves. An unresolvable reference returns a
// *domain.ResolutionMiss. The caller may log either outcome but must
// never fail the assignment mutation over it.
func (n *AssignmentNotifier) NotifyAssignment(
	ctx context.Context,
	subjectType domain.SubjectType,
	subjectID uuid.UUID,
	ref domain.AssigneeRef,
	actingUserID uuid.UUID,
	subjectTitle string,
) (domain.DispatchResult, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	recipient, err := n.resolver.Resolve(ctx, ref)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	if recipient.ID == actingUserID {
		n.logger.Debug("suppressing self-assignment notification",
			"subject_type", subjectType,
			"subject_id", subjectID,
			"user_id", actingUserID)
		return domain.DispatchResult{Outcome: domain.OutcomeSkippedSelf}, nil
	}

	result := n.dispatcher.Dispatch(ctx, recipient, assignmentPayload(subjectType, subjectTitle))

	n.logger.Info("assignment notification dispatched",
		"subject_type", subjectType,
		"subject_id", subjectID,
		"recipient_id", recipient.ID,
		"outcome", result.Outcome)

	return result, nil
}

// assignmentPayload builds the notification content for a new
// assignment.
func assignmentPayload(subjectType domain.SubjectType, title string) Payload {
	noun := "task"
	if subjectType == domain.SubjectSubtask {
		noun = "subtask"
	}
	return Payload{
		Subject: fmt.Sprintf("You were assigned: %s", title),
		Body:    fmt.Sprintf("You have been assigned the %s %q.", noun, title),
	}
}
