package repositories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/paylane/ledger-service/internal/models"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"pending to completed", models.TransferStatusPending, models.TransferStatusCompleted, nil},
		{"pending to failed", models.TransferStatusPending, models.TransferStatusFailed, nil},
		{"pending to reversed", models.TransferStatusPending, models.TransferStatusReversed, nil},
		{"completed to reversed", models.TransferStatusCompleted, models.TransferStatusReversed, nil},
		{"same status is a no-op", models.TransferStatusFailed, models.TransferStatusFailed, nil},
		{"completed to failed", models.TransferStatusCompleted, models.TransferStatusFailed, ErrInvalidStatusSet},
		{"completed to pending", models.TransferStatusCompleted, models.TransferStatusPending, ErrInvalidStatusSet},
		{"failed to completed", models.TransferStatusFailed, models.TransferStatusCompleted, ErrImmutableRecord},
		{"reversed to completed", models.TransferStatusReversed, models.TransferStatusCompleted, ErrImmutableRecord},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkTransition(tc.from, tc.to)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_transfer_records_idempotency_key"`)))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}
