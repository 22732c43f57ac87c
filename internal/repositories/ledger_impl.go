package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paylane/ledger-service/internal/models"

	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates the GORM-backed transfer ledger.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, rec *models.TransferRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create transfer record: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Update(ctx context.Context, rec *models.TransferRecord) error {
	var current models.TransferRecord
	if err := r.db.WithContext(ctx).First(&current, "id = ?", rec.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to load transfer record: %w", err)
	}
	if err := checkTransition(current.Status, rec.Status); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("failed to update transfer record: %w", err)
	}
	return nil
}

// checkTransition enforces ledger immutability: pending records may move to
// any status, completed records may only become reversed, everything else
// is frozen.
func checkTransition(from, to string) error {
	if from == to {
		return nil
	}
	switch from {
	case models.TransferStatusPending:
		return nil
	case models.TransferStatusCompleted:
		if to == models.TransferStatusReversed {
			return nil
		}
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusSet, from, to)
	default:
		return fmt.Errorf("%w: status %s", ErrImmutableRecord, from)
	}
}

func (r *ledgerRepository) GetByID(ctx context.Context, id string) (*models.TransferRecord, error) {
	var rec models.TransferRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get transfer record: %w", err)
	}
	return &rec, nil
}

func (r *ledgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.TransferRecord, error) {
	var rec models.TransferRecord
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get transfer record by key: %w", err)
	}
	return &rec, nil
}

func (r *ledgerRepository) GetByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.TransferRecord, int64, error) {
	var (
		records []models.TransferRecord
		total   int64
	)
	q := r.db.WithContext(ctx).Model(&models.TransferRecord{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transfer records: %w", err)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transfer records: %w", err)
	}
	return records, total, nil
}

func (r *ledgerRepository) ListStalled(ctx context.Context, olderThan time.Time) ([]models.TransferRecord, error) {
	var records []models.TransferRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.TransferStatusPending, olderThan).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stalled records: %w", err)
	}
	return records, nil
}

// isUniqueViolation matches the postgres duplicate-key error without
// depending on driver error types.
func isUniqueViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key value"))
}
