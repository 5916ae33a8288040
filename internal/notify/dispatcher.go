package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meditrack/meditrack-server/internal/observability/metrics"
	"github.com/meditrack/meditrack-server/pkg/logging"
)

// Message records one accepted outbound notification. A fresh ID is minted
// per call; it is never reused.
type Message struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	To        string    `json:"to"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Dispatcher fans out SMS and email through the configured transports.
// Both paths are at-most-once and fire-and-forget: a transport error is
// logged and counted, and the caller gets nil back. Absence of a Message is
// the failure signal; nothing is retried.
type Dispatcher struct {
	sms     SMSSender
	email   EmailSender
	metrics *metrics.NotificationMetrics
	logger  *logging.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(sms SMSSender, email EmailSender, m *metrics.NotificationMetrics, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		sms:     sms,
		email:   email,
		metrics: m,
		logger:  logger,
	}
}

// SendSMS makes a single SMS transport call.
func (d *Dispatcher) SendSMS(ctx context.Context, to, body string) *Message {
	if d.sms == nil {
		d.logger.Warn("notify: SMS transport not configured, dropping message", "to", to)
		return nil
	}

	msg := &Message{
		ID:        uuid.NewString(),
		Channel:   "sms",
		To:        to,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.sms.SendSMS(ctx, to, body); err != nil {
		d.metrics.ObserveFailed("sms")
		d.logger.Error("failed to send sms notification", "error", err, "to", to, "message_id", msg.ID)
		return nil
	}

	d.metrics.ObserveSent("sms")
	d.logger.Info("sms notification sent", "to", to, "message_id", msg.ID)
	return msg
}

// SendEmail makes a single email transport call.
func (d *Dispatcher) SendEmail(ctx context.Context, to, subject, html string) *Message {
	if d.email == nil {
		d.logger.Warn("notify: email transport not configured, dropping message", "to", to)
		return nil
	}

	msg := &Message{
		ID:        uuid.NewString(),
		Channel:   "email",
		To:        to,
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.email.Send(ctx, EmailMessage{To: to, Subject: subject, HTML: html}); err != nil {
		d.metrics.ObserveFailed("email")
		d.logger.Error("failed to send email notification", "error", err, "to", to, "message_id", msg.ID)
		return nil
	}

	d.metrics.ObserveSent("email")
	d.logger.Info("email notification sent", "to", to, "subject", subject, "message_id", msg.ID)
	return msg
}
