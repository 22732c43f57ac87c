package balance

import (
	"context"
	"time"
)

// Operation is a balance mutation verb understood by the wallet service.
type Operation string

const (
	OpSet      Operation = "set"
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
)

// Outcome classifies the result of a remote call. Unknown means the request
// may or may not have been applied (timeout, connection error, 5xx) and must
// be resolved by a follow-up balance read, never assumed failed.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeRejected
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Balance is a point-in-time observation of a remote wallet. It is never
// cached across requests; every transfer attempt re-reads it.
type Balance struct {
	UserID   uint
	Amount   int64
	Currency string
}

// AdjustResult is the three-outcome response to a balance mutation.
// NewBalance is only meaningful when Outcome is OutcomeConfirmed.
type AdjustResult struct {
	Outcome    Outcome
	NewBalance int64
	Err        error
}

// RetryPolicy bounds retries with exponential backoff. Used for balance
// reads and for the compensation loop; initial debit/credit mutations are
// never retried automatically.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delay returns the backoff before the given 1-based retry attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Sleep blocks for the attempt's backoff or until the context is done.
func (p RetryPolicy) Sleep(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.Delay(attempt)):
		return nil
	}
}

// Config holds the adapter's connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryPolicy
}

// Adapter is the remote wallet contract consumed by the orchestrator.
type Adapter interface {
	// GetBalance reads the current balance, retrying transient failures
	// under the configured policy.
	GetBalance(ctx context.Context, userID uint) (*Balance, error)
	// AdjustBalance issues a single mutation attempt and classifies the
	// result. It never retries; replaying a non-idempotent mutation could
	// double-apply it.
	AdjustBalance(ctx context.Context, userID uint, op Operation, amount int64) AdjustResult
}
