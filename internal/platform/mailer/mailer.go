// Package mailer is the HTTP client for the external email delivery
// service. The engine treats the service as a single send capability:
// any transport error or non-2xx response is a failure, and
// service-specific error codes are never inspected.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrSendFailed is returned when the delivery service rejects a message
// or cannot be reached.
var ErrSendFailed = errors.New("mail delivery failed")

// Config holds the delivery service settings.
type Config struct {
	// Endpoint is the full URL of the service's send operation.
	Endpoint string

	// APIKey authenticates requests as a bearer token.
	APIKey string

	// From is the sender address stamped on every message.
	From string
}

// Client sends email through the delivery service.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a mailer client. Per-send deadlines come from the caller's
// context; the embedded http.Client carries only a generous safety-net
// timeout.
func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sendRequest is the JSON body of a send call.
type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// sendResponse is the JSON body of a successful send call.
type sendResponse struct {
	ID string `json:"id"`
}

// Send delivers one message and returns the service's message
// identifier. It makes exactly one attempt; retry policy belongs to the
// caller.
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    c.cfg.From,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the log line, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, snippet)
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrSendFailed, err)
	}

	return out.ID, nil
}
