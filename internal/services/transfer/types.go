package transfer

import (
	"context"
	"time"

	"github.com/paylane/ledger-service/internal/models"
	"github.com/paylane/ledger-service/internal/services/balance"
)

// SubmitRequest is a validated transfer submission. Amount is in minor
// units; SenderID comes from the gateway-attached identity, never the body.
type SubmitRequest struct {
	SenderID       uint
	ReceiverID     uint
	Amount         int64
	Type           string
	Description    string
	IdempotencyKey string
}

// Config holds orchestrator tuning. Zero values are replaced with the
// package defaults.
type Config struct {
	Currency       string
	LockTTL        time.Duration
	LockWait       time.Duration
	StalledCutoff  time.Duration
	LedgerAttempts int
	Compensation   balance.RetryPolicy
}

// Ledger is the transfer ledger surface used by the orchestrator.
type Ledger interface {
	Create(ctx context.Context, rec *models.TransferRecord) error
	Update(ctx context.Context, rec *models.TransferRecord) error
	GetByID(ctx context.Context, id string) (*models.TransferRecord, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.TransferRecord, error)
	GetByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.TransferRecord, int64, error)
	ListStalled(ctx context.Context, olderThan time.Time) ([]models.TransferRecord, error)
}

// Locker serializes debit attempts per user across service instances.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	AcquireWait(ctx context.Context, key string, ttl, wait time.Duration) (token string, err error)
	Release(ctx context.Context, key, token string) error
}

// Notifier delivers best-effort user notifications.
type Notifier interface {
	Notify(ctx context.Context, userID uint, title, message, kind string) error
}

// Service is the transfer orchestrator.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*models.TransferRecord, error)
	GetByID(ctx context.Context, id string) (*models.TransferRecord, error)
	GetByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.TransferRecord, int64, error)
	// Reverse undoes a completed transfer through the compensation path,
	// applying the single legal status transition completed -> reversed.
	Reverse(ctx context.Context, id string) (*models.TransferRecord, error)
	// RecoverStalled flags pending records left behind by a crashed
	// process for manual reconciliation. Returns the number flagged.
	RecoverStalled(ctx context.Context) (int, error)
}
