package transfer

import (
	"errors"
	"fmt"

	"github.com/paylane/ledger-service/internal/money"
)

// Service errors
var (
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrSelfTransfer          = errors.New("cannot transfer to self")
	ErrInvalidType           = errors.New("unsupported transaction type")
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")
	ErrInsufficientFunds     = errors.New("insufficient balance")
	ErrSenderNotFound        = errors.New("sender wallet not found")
	ErrReceiverNotFound      = errors.New("receiver wallet not found")
	ErrRemoteUnavailable     = errors.New("wallet service unavailable")
	ErrDuplicateInFlight     = errors.New("a request with this idempotency key is being processed")
	ErrNotReversible         = errors.New("transaction cannot be reversed")

	// ErrReconciliationRequired marks terminal anomalies that an operator
	// must resolve by hand: money may be in a state the ledger cannot
	// prove. Never returned for ordinary failures.
	ErrReconciliationRequired = errors.New("manual reconciliation required")
)

// CompensationError reports that a confirmed debit could not be restored
// after the credit leg failed: the sender is short by Amount with no
// corresponding credit anywhere.
type CompensationError struct {
	RecordID string
	SenderID uint
	Amount   int64
	Err      error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensation failed for transfer %s: sender %d is short %s: %v",
		e.RecordID, e.SenderID, money.Format(e.Amount), e.Err)
}

func (e *CompensationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrReconciliationRequired) match a CompensationError.
func (e *CompensationError) Is(target error) bool {
	return target == ErrReconciliationRequired
}
