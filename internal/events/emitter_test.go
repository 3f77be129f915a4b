package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitlock/taskping/internal/platform/logger"
)

type recordingHandler struct {
	seen []*Event
	err  error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.seen = append(h.seen, event)
	return h.err
}

func TestNewEventRoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct {
		SubjectID string `json:"subject_id"`
		Assignee  string `json:"assignee"`
	}

	event, err := NewEvent(EventAssignmentCreated, payload{SubjectID: "t-1", Assignee: "dana"})
	require.NoError(t, err)
	assert.Equal(t, EventAssignmentCreated, event.Type)

	var got payload
	require.NoError(t, event.UnmarshalPayload(&got))
	assert.Equal(t, "dana", got.Assignee)
}

func TestEmitEventReachesAllHandlers(t *testing.T) {
	t.Parallel()

	log, _ := logger.NewTestLogger()
	emitter := NewInMemoryEmitter(log)

	failing := &recordingHandler{err: errors.New("dispatch failed")}
	ok := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(ok)

	event, err := NewEvent(EventAssignmentCreated, map[string]string{"k": "v"})
	require.NoError(t, err)

	emitErr := emitter.EmitEvent(context.Background(), event)
	assert.EqualError(t, emitErr, "dispatch failed")

	// One handler failing must not stop delivery to the others.
	assert.Len(t, failing.seen, 1)
	assert.Len(t, ok.seen, 1)
}

func TestEmitEventNoHandlers(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()
	emitter := NewInMemoryEmitter(log)

	event, err := NewEvent(EventAssignmentCreated, struct{}{})
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	entries, err := buf.Entries()
	require.NoError(t, err)
	var warned bool
	for _, e := range entries {
		if e["level"] == "WARN" {
			warned = true
		}
	}
	assert.True(t, warned, "emitting with no handlers should warn")
}
