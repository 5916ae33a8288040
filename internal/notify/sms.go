package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/meditrack/meditrack-server/pkg/logging"
)

var telnyxTracer = otel.Tracer("meditrack.internal.notify.telnyx")

// SMSSender sends SMS messages to patients.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// TelnyxSender posts SMS messages using Telnyx's V2 API. One attempt per
// call; the dispatcher's at-most-once contract leaves retries to nobody.
type TelnyxSender struct {
	apiKey             string
	messagingProfileID string
	fromNumber         string
	baseURL            string
	httpClient         *http.Client
	logger             *logging.Logger
}

// TelnyxConfig holds configuration for the Telnyx SMS transport.
type TelnyxConfig struct {
	APIKey             string
	MessagingProfileID string
	FromNumber         string
	BaseURL            string
}

// NewTelnyxSender builds a sender for Telnyx V2 API. Returns nil when no API
// key is configured.
func NewTelnyxSender(cfg TelnyxConfig, logger *logging.Logger) *TelnyxSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telnyx.com/v2"
	}
	return &TelnyxSender{
		apiKey:             cfg.APIKey,
		messagingProfileID: cfg.MessagingProfileID,
		fromNumber:         cfg.FromNumber,
		baseURL:            strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SendSMS dispatches a single SMS via Telnyx V2 API.
func (s *TelnyxSender) SendSMS(ctx context.Context, to, body string) error {
	if to == "" {
		return errors.New("notify: sms recipient required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("notify: sms body required")
	}

	ctx, span := telnyxTracer.Start(ctx, "notify.telnyx.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("meditrack.to", to),
		attribute.String("meditrack.from", s.fromNumber),
	)

	payload := map[string]any{
		"from": s.fromNumber,
		"to":   to,
		"text": body,
	}
	if s.messagingProfileID != "" {
		payload["messaging_profile_id"] = s.messagingProfileID
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal telnyx payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("notify: build telnyx request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("failed to send telnyx sms", "error", err, "to", to)
		return fmt.Errorf("notify: telnyx send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("notify: telnyx send failed: status %d", resp.StatusCode)
		var errorBody map[string]any
		if len(respBody) > 0 && json.Unmarshal(respBody, &errorBody) == nil {
			err = fmt.Errorf("notify: telnyx send failed: status %d, body: %v", resp.StatusCode, errorBody)
		}
		span.RecordError(err)
		s.logger.Error("telnyx rejected sms", "error", err, "to", to)
		return err
	}

	s.logger.Info("telnyx sms sent", "to", to, "from", s.fromNumber)
	return nil
}

// StubSMSSender is a no-op sender for testing or when SMS is disabled.
type StubSMSSender struct {
	logger *logging.Logger
}

// NewStubSMSSender creates a stub SMS sender.
func NewStubSMSSender(logger *logging.Logger) *StubSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSMSSender{logger: logger}
}

// SendSMS logs but doesn't send.
func (s *StubSMSSender) SendSMS(ctx context.Context, to, body string) error {
	s.logger.Info("stub SMS sender: would send", "to", to, "body_preview", truncate(body, 50))
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

var _ SMSSender = (*TelnyxSender)(nil)
var _ SMSSender = (*StubSMSSender)(nil)
