// Package main implements scan-trigger, a small CLI that invokes the
// server's notification scan endpoint. It is meant to be run from cron
// or a systemd timer; its exit code is the scheduler's only signal, so
// it exits non-zero on any failure: network error, non-2xx status, or a
// response reporting success: false.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// scanResponse mirrors the server's response envelope.
type scanResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details map[string]any  `json:"details"`
	TraceID string          `json:"trace_id"`
}

func main() {
	var (
		serverURL = flag.String("url", "http://localhost:8080", "base URL of the taskping server")
		token     = flag.String("token", os.Getenv("TASKPING_SERVER_SCAN_TOKEN"), "scan endpoint bearer token")
		timeout   = flag.Duration("timeout", 10*time.Minute, "overall request timeout")
	)
	flag.Parse()

	if err := run(*serverURL, *token, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "scan-trigger: %v\n", err)
		os.Exit(1)
	}
}

func run(serverURL, token string, timeout time.Duration) error {
	if token == "" {
		return fmt.Errorf("no token given (set -token or TASKPING_SERVER_SCAN_TOKEN)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/api/notifications/scan", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling scan endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var envelope scanResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("scan endpoint returned status %d with unparseable body: %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = "scan failed"
		}
		if op, ok := envelope.Details["operation"]; ok {
			return fmt.Errorf("%s (status %d, operation %v, trace %s)", msg, resp.StatusCode, op, envelope.TraceID)
		}
		return fmt.Errorf("%s (status %d, trace %s)", msg, resp.StatusCode, envelope.TraceID)
	}

	// Print the run report so cron mail / journal entries show what the
	// scan actually did.
	fmt.Printf("scan completed: %s\n", string(envelope.Data))
	return nil
}
