// Package notification delivers best-effort user notifications through the
// notification service. Delivery failures are logged and discarded; they
// never affect a transfer's outcome.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Notification kinds understood by the notification service.
const (
	KindTransaction = "transaction"
)

// Service sends user notifications.
type Service interface {
	Notify(ctx context.Context, userID uint, title, message, kind string) error
}

type httpService struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewService creates an HTTP-backed notification client.
func NewService(baseURL string, timeout time.Duration, logger *zap.Logger) Service {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpService{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type notifyRequest struct {
	UserID  uint   `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (s *httpService) Notify(ctx context.Context, userID uint, title, message, kind string) error {
	payload := notifyRequest{UserID: userID, Title: title, Message: message, Type: kind}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	url := s.baseURL + "/internal/notifications"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("notification delivery failed",
			zap.Uint("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("notification service returned status %d", resp.StatusCode)
		s.logger.Warn("notification delivery rejected",
			zap.Uint("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
		return err
	}
	return nil
}
