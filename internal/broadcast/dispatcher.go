package broadcast

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/metrics"
)

const DefaultMaxRecipients = 50

type Result struct {
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Dropped int    `json:"-"`
	Message string `json:"message"`
}

type Options struct {
	From          string
	Footer        string
	MaxRecipients int
}

type Dispatcher struct {
	sender Sender
	opts   Options
	logger logger.Logger
}

func NewDispatcher(sender Sender, opts Options, log logger.Logger) *Dispatcher {
	if opts.MaxRecipients <= 0 {
		opts.MaxRecipients = DefaultMaxRecipients
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Dispatcher{sender: sender, opts: opts, logger: log}
}

// Broadcast sends to at most MaxRecipients recipients concurrently and waits for every
// attempt. Per-recipient failures are counted, never returned.
func (d *Dispatcher) Broadcast(ctx context.Context, recipients []Recipient, subject, message string) (*Result, error) {
	if len(recipients) == 0 {
		return nil, apperrors.NewValidationError("No recipients provided")
	}
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("Subject and message are required")
	}

	batch := recipients
	dropped := 0
	if len(batch) > d.opts.MaxRecipients {
		dropped = len(batch) - d.opts.MaxRecipients
		batch = batch[:d.opts.MaxRecipients]
		metrics.BroadcastRecipientsDropped.Add(float64(dropped))
		d.logger.Info("Broadcast batch truncated", map[string]interface{}{
			"requested": len(recipients),
			"dropped":   dropped,
		})
	}

	p := pool.NewWithResults[bool]()
	for _, rcpt := range batch {
		p.Go(func() bool {
			return d.sendOne(ctx, rcpt, subject, message)
		})
	}

	res := &Result{Dropped: dropped}
	for _, ok := range p.Wait() {
		if ok {
			res.Sent++
		} else {
			res.Failed++
		}
	}
	res.Message = fmt.Sprintf("Emails processed: %d sent, %d failed.", res.Sent, res.Failed)

	if res.Failed > 0 {
		partial := apperrors.NewPartialDeliveryError(res.Sent, res.Failed)
		d.logger.Warn(partial.Message, map[string]interface{}{
			"errorCode": partial.Code,
			"sent":      res.Sent,
			"failed":    res.Failed,
			"provider":  d.sender.Name(),
		})
	}

	return res, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, rcpt Recipient, subject, message string) bool {
	provider := d.sender.Name()
	to := strings.TrimSpace(rcpt.Email)
	if to == "" {
		metrics.BroadcastEmails.WithLabelValues(provider, "failed").Inc()
		d.logger.Warn("Skipping recipient without email", map[string]interface{}{
			"name": rcpt.Name,
		})
		return false
	}

	html, err := RenderHTML(rcpt.Name, message, d.opts.Footer)
	if err != nil {
		metrics.BroadcastEmails.WithLabelValues(provider, "failed").Inc()
		d.logger.Error("Failed to render email", map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
		return false
	}

	err = d.sender.Send(ctx, Email{
		From:    d.opts.From,
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    RenderText(rcpt.Name, message, d.opts.Footer),
	})
	if err != nil {
		metrics.BroadcastEmails.WithLabelValues(provider, "failed").Inc()
		d.logger.Warn("Email send failed", map[string]interface{}{
			"to":       to,
			"provider": provider,
			"error":    err.Error(),
		})
		return false
	}

	metrics.BroadcastEmails.WithLabelValues(provider, "sent").Inc()
	return true
}
