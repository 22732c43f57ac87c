package balance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paylane/ledger-service/internal/money"
)

const defaultTimeout = 10 * time.Second

// Client talks to the wallet service's internal balance endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
}

// NewClient creates a wallet service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = RetryPolicy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
	}
}

// The wallet service speaks float JSON for balances and amounts; conversion
// to minor units happens here and nowhere else.
type balanceResponse struct {
	Success  bool    `json:"success"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
	Error    string  `json:"error"`
}

type adjustRequest struct {
	Operation Operation   `json:"operation"`
	Amount    json.Number `json:"amount"`
}

func (c *Client) balanceURL(userID uint) string {
	return fmt.Sprintf("%s/internal/wallets/user/%d/balance", c.baseURL, userID)
}

// GetBalance reads the wallet's current balance. Reads are idempotent, so
// transient failures are retried under the policy.
func (c *Client) GetBalance(ctx context.Context, userID uint) (*Balance, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.retry.Sleep(ctx, attempt-1); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}
		bal, err := c.getBalanceOnce(ctx, userID)
		if err == nil {
			return bal, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) getBalanceOnce(ctx context.Context, userID uint) (*Balance, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.balanceURL(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrWalletNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	amount, err := money.FromFloat(body.Balance)
	if err != nil {
		return nil, fmt.Errorf("%w: balance %v: %v", ErrRejected, body.Balance, err)
	}
	return &Balance{UserID: userID, Amount: amount, Currency: body.Currency}, nil
}

// AdjustBalance issues one mutation and classifies the outcome. An explicit
// 4xx is a confirmed rejection; anything that leaves the applied state in
// doubt is OutcomeUnknown.
func (c *Client) AdjustBalance(ctx context.Context, userID uint, op Operation, amount int64) AdjustResult {
	payload := adjustRequest{Operation: op, Amount: json.Number(money.Format(amount))}
	body, err := json.Marshal(payload)
	if err != nil {
		return AdjustResult{Outcome: OutcomeRejected, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.balanceURL(userID), bytes.NewBuffer(body))
	if err != nil {
		return AdjustResult{Outcome: OutcomeRejected, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AdjustResult{Outcome: OutcomeUnknown, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return AdjustResult{Outcome: OutcomeRejected, Err: ErrWalletNotFound}
	case resp.StatusCode == http.StatusBadRequest:
		return AdjustResult{Outcome: OutcomeRejected, Err: ErrInsufficientFunds}
	case resp.StatusCode >= 500:
		return AdjustResult{Outcome: OutcomeUnknown, Err: fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)}
	case resp.StatusCode >= 400:
		return AdjustResult{Outcome: OutcomeRejected, Err: fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)}
	}

	var parsed balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// The mutation was acknowledged with 2xx; a broken body does not
		// change that.
		return AdjustResult{Outcome: OutcomeConfirmed}
	}
	newBalance, err := money.FromFloat(parsed.Balance)
	if err != nil {
		return AdjustResult{Outcome: OutcomeConfirmed}
	}
	return AdjustResult{Outcome: OutcomeConfirmed, NewBalance: newBalance}
}
