package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/redact"
)

// DeliveryChannel is the external send capability. Implementations make
// exactly one delivery attempt and return the channel's message
// identifier on success.
type DeliveryChannel interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// Payload is the content of one notification.
type Payload struct {
	Subject string
	Body    string
}

// Dispatcher delivers one notification to one recipient, isolating
// per-recipient failure: callers always receive an outcome, never a
// fault, because one recipient's failure must not abort a
// multi-recipient batch.
//
// The dispatcher never retries. The ledger already prevents
// double-delivery for the same logical event, and a failed dispatch is
// terminal for its key; blindly retrying could attempt delivery after
// conditions changed.
type Dispatcher struct {
	channel DeliveryChannel
	timeout time.Duration
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher. timeout bounds each delivery
// attempt; zero means no per-dispatch bound beyond the caller's context.
func NewDispatcher(channel DeliveryChannel, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		channel: channel,
		timeout: timeout,
		logger:  logger.With("component", "dispatcher"),
	}
}

// Dispatch attempts delivery to the recipient and reports the outcome.
//
// A recipient without an email address yields skipped-no-address without
// contacting the channel. A channel error, timeout, or panic yields
// failed with the error detail.
func (d *Dispatcher) Dispatch(ctx context.Context, recipient *domain.User, payload Payload) (result domain.DispatchResult) {
	if !recipient.HasEmail() {
		d.logger.Info("recipient has no email address, skipping",
			"recipient_id", recipient.ID)
		return domain.DispatchResult{Outcome: domain.OutcomeSkippedNoAddress}
	}

	// The channel implementation is external code; a panic from it must
	// surface as a failed outcome, not abort the batch.
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("delivery channel panicked",
				"recipient_id", recipient.ID,
				"panic", p)
			result = domain.DispatchResult{
				Outcome: domain.OutcomeFailed,
				Detail:  fmt.Sprintf("delivery channel panic: %v", p),
			}
		}
	}()

	sendCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	messageID, err := d.channel.Send(sendCtx, recipient.Email, payload.Subject, payload.Body)
	if err != nil {
		// Provider errors tend to quote the failing address; scrub it
		// before the detail reaches the logs or the ledger.
		detail := redact.Error(err)
		d.logger.Warn("delivery failed",
			"recipient_id", recipient.ID,
			"error", detail)
		return domain.DispatchResult{
			Outcome: domain.OutcomeFailed,
			Detail:  detail,
		}
	}

	d.logger.Debug("notification delivered",
		"recipient_id", recipient.ID,
		"message_id", messageID)
	return domain.DispatchResult{
		Outcome:   domain.OutcomeSent,
		MessageID: messageID,
	}
}
