package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MhisterKhing6/shortly/internal/config"
)

// SMSSender sends messages through an mNotify-style bulk SMS HTTP gateway
type SMSSender struct {
	logger    *slog.Logger
	client    *http.Client
	baseURL   string
	accessKey string
	sender    string
}

// NewSMSSender creates an SMS sender from configuration
func NewSMSSender(logger *slog.Logger, cfg *config.NotificationConfig) *SMSSender {
	return &SMSSender{
		logger:    logger,
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		accessKey: cfg.AccessKey,
		sender:    cfg.Sender,
	}
}

// Send posts one message to the gateway's quick-send endpoint
func (s *SMSSender) Send(ctx context.Context, msg Message) error {
	payload := map[string]interface{}{
		"recipient":     []string{msg.To},
		"sender":        s.sender,
		"message":       msg.Body,
		"is_schedule":   false,
		"schedule_date": "",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	url := fmt.Sprintf("%s/quick?key=%s", s.baseURL, s.accessKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sms gateway returned status %d for recipient %s", resp.StatusCode, msg.To)
	}

	s.logger.Debug("SMS sent", "to", msg.To)
	return nil
}
