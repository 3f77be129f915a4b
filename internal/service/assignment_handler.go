package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/events"
)

// AssignmentEventPayload is the payload of an assignment.created event
// emitted by the task subsystem after an assignment write commits.
// Exactly one of AssigneeID and AssigneeName is set, mirroring the two
// reference forms.
type AssignmentEventPayload struct {
	SubjectType  domain.SubjectType `json:"subject_type"`
	SubjectID    uuid.UUID          `json:"subject_id"`
	SubjectTitle string             `json:"subject_title"`
	AssigneeID   uuid.UUID          `json:"assignee_id,omitempty"`
	AssigneeName string             `json:"assignee_name,omitempty"`
	ActingUserID uuid.UUID          `json:"acting_user_id"`
}

// ref converts the payload's assignee fields into an AssigneeRef.
func (p *AssignmentEventPayload) ref() domain.AssigneeRef {
	if p.AssigneeID != uuid.Nil {
		return domain.AssigneeByID(p.AssigneeID)
	}
	return domain.AssigneeByName(p.AssigneeName)
}

// AssignmentEventHandler bridges assignment.created events to the
// AssignmentNotifier. Notification failures are logged, never returned:
// a missed notification must not surface as a failure of the assignment
// write that triggered it.
type AssignmentEventHandler struct {
	notifier *AssignmentNotifier
	logger   *slog.Logger
}

// NewAssignmentEventHandler creates an AssignmentEventHandler.
func NewAssignmentEventHandler(notifier *AssignmentNotifier, logger *slog.Logger) *AssignmentEventHandler {
	return &AssignmentEventHandler{
		notifier: notifier,
		logger:   logger.With("component", "assignment_event_handler"),
	}
}

// Ensure AssignmentEventHandler implements events.Handler
var _ events.Handler = (*AssignmentEventHandler)(nil)

// HandleEvent implements events.Handler. It returns an error only for
// events it cannot decode; dispatch outcomes and resolution misses are
// logged and swallowed.
func (h *AssignmentEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.EventAssignmentCreated {
		return nil
	}

	var payload AssignmentEventPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("decoding assignment event payload: %w", err)
	}

	result, err := h.notifier.NotifyAssignment(
		ctx,
		payload.SubjectType,
		payload.SubjectID,
		payload.ref(),
		payload.ActingUserID,
		payload.SubjectTitle,
	)
	if err != nil {
		if miss, ok := domain.AsResolutionMiss(err); ok {
			h.logger.Warn("assignment notification skipped, assignee unresolvable",
				"event_id", event.ID,
				"subject_id", payload.SubjectID,
				"assignee", miss.Ref.String(),
				"reason", miss.Reason)
		} else {
			h.logger.Error("assignment notification failed",
				"event_id", event.ID,
				"subject_id", payload.SubjectID,
				"error", err)
		}
		return nil
	}

	if result.Outcome == domain.OutcomeFailed {
		h.logger.Warn("assignment succeeded, notification not confirmed",
			"event_id", event.ID,
			"subject_id", payload.SubjectID,
			"detail", result.Detail)
	}

	return nil
}
