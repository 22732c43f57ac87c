package models

import (
	"time"

	"github.com/paylane/ledger-service/internal/money"
)

// Transfer types
const (
	TransferTypeTransfer   = "transfer"
	TransferTypeTopup      = "topup"
	TransferTypeWithdrawal = "withdrawal"
)

// Transfer statuses. A record leaves "pending" exactly once; "completed" and
// "failed" are terminal except for the single legal transition
// completed -> reversed performed by the reversal path.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
	TransferStatusReversed  = "reversed"
)

// Saga steps persisted on the record so a restarted process can tell how far
// an interrupted attempt got.
const (
	StepDebitPending   = "debit_pending"
	StepDebitConfirmed = "debit_confirmed"
	StepCreditPending  = "credit_pending"
	StepCompensating   = "compensating"
	StepDone           = "done"
)

// TransferRecord is the ledger entry for one transfer attempt. Amount is in
// minor units; the wire representation is produced by View.
type TransferRecord struct {
	ID                  string `gorm:"primarykey;size:36"`
	Type                string `gorm:"not null;size:20"`
	SenderID            uint   `gorm:"not null;index"`
	ReceiverID          uint   `gorm:"not null;index"`
	Amount              int64  `gorm:"not null"`
	Currency            string `gorm:"size:8"`
	Description         string `gorm:"size:255"`
	Status              string `gorm:"not null;default:'pending';index"`
	Step                string `gorm:"size:32"`
	IdempotencyKey      string `gorm:"uniqueIndex;not null;size:100"`
	Compensated         bool   `gorm:"default:false"`
	NeedsReconciliation bool   `gorm:"default:false;index"`
	FailureReason       string `gorm:"size:255"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Terminal reports whether the record can no longer change status through
// the normal saga path.
func (r *TransferRecord) Terminal() bool {
	return r.Status != TransferStatusPending
}

// TransferRecordView is the JSON shape returned to clients: amounts as
// fixed-point decimal strings, timestamps in RFC 3339 UTC.
type TransferRecordView struct {
	ID                  string `json:"id"`
	Type                string `json:"type"`
	SenderID            uint   `json:"sender_id"`
	ReceiverID          uint   `json:"receiver_id"`
	Amount              string `json:"amount"`
	Currency            string `json:"currency"`
	Description         string `json:"description"`
	Status              string `json:"status"`
	IdempotencyKey      string `json:"idempotency_key"`
	Compensated         bool   `json:"compensated"`
	NeedsReconciliation bool   `json:"needs_reconciliation"`
	FailureReason       string `json:"failure_reason,omitempty"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

// View converts the record to its wire representation.
func (r *TransferRecord) View() TransferRecordView {
	return TransferRecordView{
		ID:                  r.ID,
		Type:                r.Type,
		SenderID:            r.SenderID,
		ReceiverID:          r.ReceiverID,
		Amount:              money.Format(r.Amount),
		Currency:            r.Currency,
		Description:         r.Description,
		Status:              r.Status,
		IdempotencyKey:      r.IdempotencyKey,
		Compensated:         r.Compensated,
		NeedsReconciliation: r.NeedsReconciliation,
		FailureReason:       r.FailureReason,
		CreatedAt:           r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
