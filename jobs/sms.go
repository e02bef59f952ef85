package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// SMSSender delivers one message to a guardian's phone.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// GatewaySender posts messages to an HTTP SMS gateway.
type GatewaySender struct {
	url      string
	senderID string
	client   *http.Client
}

// NewGatewaySender constructs a gateway client.
func NewGatewaySender(url, senderID string) *GatewaySender {
	return &GatewaySender{
		url:      url,
		senderID: senderID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message. Any non-2xx response is an error so asynq
// retries with backoff.
func (s *GatewaySender) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		"sender":  s.senderID,
		"to":      phone,
		"message": message,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway: status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes messages to the log. Used in development and whenever
// no gateway URL is configured.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the message instead of delivering it.
func (s LogSender) Send(_ context.Context, phone, message string) error {
	s.Logger.Info("sms (not sent, no gateway)",
		slog.String("phone", phone),
		slog.String("message", message))
	return nil
}

// NewSMSSender picks the gateway or the log fallback.
func NewSMSSender(url, senderID string, logger *slog.Logger) SMSSender {
	if url == "" {
		return LogSender{Logger: logger}
	}
	return NewGatewaySender(url, senderID)
}
