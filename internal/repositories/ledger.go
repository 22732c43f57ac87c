package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/paylane/ledger-service/internal/models"
)

var (
	ErrRecordNotFound   = errors.New("transfer record not found")
	ErrDuplicateKey     = errors.New("idempotency key already recorded")
	ErrImmutableRecord  = errors.New("transfer record is immutable")
	ErrInvalidStatusSet = errors.New("illegal status transition")
)

// LedgerRepository is the append-only transfer ledger. Records are inserted
// once and updated only while pending, plus the single legal transition
// completed -> reversed.
type LedgerRepository interface {
	Create(ctx context.Context, rec *models.TransferRecord) error
	Update(ctx context.Context, rec *models.TransferRecord) error
	GetByID(ctx context.Context, id string) (*models.TransferRecord, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.TransferRecord, error)
	GetByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.TransferRecord, int64, error)
	ListStalled(ctx context.Context, olderThan time.Time) ([]models.TransferRecord, error)
}
