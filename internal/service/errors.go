package service

import (
	"fmt"
)

// ScanError wraps a top-level scan failure with the operation that
// caused it. Only failures to reach the data source at all (loading
// tasks, reaching the ledger) surface as ScanErrors; per-item failures
// are converted into run-report counters instead.
type ScanError struct {
	// Operation is the step that failed (e.g., "load_tasks", "reserve")
	Operation string
	// Err is the underlying error
	Err error
}

// Error implements the error interface for ScanError.
func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// newScanError creates a ScanError, passing nil through.
func newScanError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ScanError{Operation: operation, Err: err}
}
