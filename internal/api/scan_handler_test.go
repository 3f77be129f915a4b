package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitlock/taskping/internal/api/shared"
	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/platform/logger"
	"github.com/mwhitlock/taskping/internal/service"
)

// stubScanRunner returns a canned report or error and records the
// evaluation instant it was handed.
type stubScanRunner struct {
	report *domain.RunReport
	err    error
	gotNow time.Time
}

func (s *stubScanRunner) RunScan(ctx context.Context, now time.Time) (*domain.RunReport, error) {
	s.gotNow = now
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func TestTriggerScanSuccess(t *testing.T) {
	t.Parallel()

	runner := &stubScanRunner{
		report: &domain.RunReport{
			TasksExamined: 12,
			DueSoon:       3,
			Overdue:       1,
			Sent:          4,
		},
	}
	log, _ := logger.NewTestLogger()
	handler := NewScanHandler(runner, log)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/scan", nil)
	rec := httptest.NewRecorder()
	handler.TriggerScan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Error)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var report domain.RunReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 12, report.TasksExamined)
	assert.Equal(t, 4, report.Sent)

	assert.WithinDuration(t, time.Now().UTC(), runner.gotNow, 5*time.Second,
		"handler should supply the evaluation instant")
}

func TestTriggerScanFailure(t *testing.T) {
	t.Parallel()

	runner := &stubScanRunner{
		err: &service.ScanError{Operation: "load_tasks", Err: assert.AnError},
	}
	log, _ := logger.NewTestLogger()
	handler := NewScanHandler(runner, log)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/scan", nil)
	rec := httptest.NewRecorder()
	handler.TriggerScan(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope shared.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "Notification scan failed", envelope.Error)
	assert.Equal(t, "load_tasks", envelope.Details["operation"])
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error(),
		"raw error must not leak to the client")
}
