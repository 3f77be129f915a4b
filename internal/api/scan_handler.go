package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mwhitlock/taskping/internal/api/shared"
	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/service"
)

// ScanRunner runs one due-date notification scan.
type ScanRunner interface {
	RunScan(ctx context.Context, now time.Time) (*domain.RunReport, error)
}

// ScanHandler handles scheduled-scan trigger requests.
type ScanHandler struct {
	runner ScanRunner
	logger *slog.Logger
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(runner ScanRunner, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		runner: runner,
		logger: logger.With("component", "scan_handler"),
	}
}

// TriggerScan handles GET /api/notifications/scan requests. The caller
// is the scheduler; the evaluation instant is taken here, once, so every
// task in the run is classified against the same clock reading.
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.RunScan(r.Context(), time.Now().UTC())
	if err != nil {
		details := map[string]any{}
		var scanErr *service.ScanError
		if errors.As(err, &scanErr) {
			details["operation"] = scanErr.Operation
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError,
			"Notification scan failed",
			details,
			err)
		return
	}

	h.logger.Info("scan completed via HTTP trigger",
		"trace_id", shared.GetTraceID(r.Context()),
		"tasks_examined", report.TasksExamined,
		"sent", report.Sent,
		"failed", report.Failed)

	shared.RespondWithData(w, r, http.StatusOK, report)
}
