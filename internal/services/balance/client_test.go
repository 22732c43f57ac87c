package balance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL: url,
		Timeout: 500 * time.Millisecond,
		Retry:   RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	})
}

func TestGetBalance(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/internal/wallets/user/7/balance", r.URL.Path)
			json.NewEncoder(w).Encode(map[string]any{"success": true, "balance": 500.0, "currency": "IDR"})
		}))
		defer srv.Close()

		bal, err := newTestClient(srv.URL).GetBalance(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(50000), bal.Amount)
		assert.Equal(t, "IDR", bal.Currency)
	})

	t.Run("fractional balance converts to minor units", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": true, "balance": 500.25, "currency": "IDR"})
		}))
		defer srv.Close()

		bal, err := newTestClient(srv.URL).GetBalance(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(50025), bal.Amount)
	})

	t.Run("wallet not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetBalance(context.Background(), 7)
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "balance": 10.0, "currency": "IDR"})
		}))
		defer srv.Close()

		bal, err := newTestClient(srv.URL).GetBalance(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), bal.Amount)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("exhausts retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).GetBalance(context.Background(), 7)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestAdjustBalance(t *testing.T) {
	t.Run("confirmed subtract", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			// The wallet service does arithmetic on amount, so it must be a
			// JSON number, not a quoted string.
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, string(OpSubtract), body["operation"])
			amt, ok := body["amount"].(float64)
			require.True(t, ok, "amount must decode as a JSON number")
			assert.Equal(t, 500.0, amt)
			json.NewEncoder(w).Encode(map[string]any{"success": true, "balance": 0.0})
		}))
		defer srv.Close()

		res := newTestClient(srv.URL).AdjustBalance(context.Background(), 7, OpSubtract, 50000)
		assert.Equal(t, OutcomeConfirmed, res.Outcome)
		assert.Equal(t, int64(0), res.NewBalance)
		assert.NoError(t, res.Err)
	})

	t.Run("insufficient funds is a confirmed rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Insufficient balance"})
		}))
		defer srv.Close()

		res := newTestClient(srv.URL).AdjustBalance(context.Background(), 7, OpSubtract, 50000)
		assert.Equal(t, OutcomeRejected, res.Outcome)
		assert.ErrorIs(t, res.Err, ErrInsufficientFunds)
	})

	t.Run("unknown wallet is a confirmed rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		res := newTestClient(srv.URL).AdjustBalance(context.Background(), 7, OpAdd, 100)
		assert.Equal(t, OutcomeRejected, res.Outcome)
		assert.ErrorIs(t, res.Err, ErrWalletNotFound)
	})

	t.Run("server error is unknown, not failed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		res := newTestClient(srv.URL).AdjustBalance(context.Background(), 7, OpSubtract, 100)
		assert.Equal(t, OutcomeUnknown, res.Outcome)
		assert.ErrorIs(t, res.Err, ErrUnavailable)
	})

	t.Run("timeout is unknown", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer srv.Close()

		res := newTestClient(srv.URL).AdjustBalance(context.Background(), 7, OpSubtract, 100)
		assert.Equal(t, OutcomeUnknown, res.Outcome)
		assert.ErrorIs(t, res.Err, ErrUnavailable)
	})

	t.Run("mutations are never retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		newTestClient(srv.URL).AdjustBalance(context.Background(), 7, OpSubtract, 100)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 500 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 400*time.Millisecond, p.Delay(3))
	assert.Equal(t, 500*time.Millisecond, p.Delay(4))
	assert.Equal(t, 500*time.Millisecond, p.Delay(10))
}
