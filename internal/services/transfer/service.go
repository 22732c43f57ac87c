package transfer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paylane/ledger-service/internal/models"
	"github.com/paylane/ledger-service/internal/money"
	"github.com/paylane/ledger-service/internal/repositories"
	"github.com/paylane/ledger-service/internal/repositories/cache"
	"github.com/paylane/ledger-service/internal/services/balance"
)

type service struct {
	ledger   Ledger
	wallet   balance.Adapter
	notifier Notifier
	locks    Locker
	metrics  MetricsCollector
	logger   *zap.Logger
	cfg      Config
}

// NewService creates the transfer orchestrator.
func NewService(ledger Ledger, wallet balance.Adapter, notifier Notifier, locks Locker, cfg Config, logger *zap.Logger, metrics MetricsCollector) Service {
	if ledger == nil {
		panic("ledger is required")
	}
	if wallet == nil {
		panic("wallet adapter is required")
	}
	if locks == nil {
		panic("locker is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.LockTTL == 0 {
		cfg.LockTTL = DefaultLockTTL
	}
	if cfg.LockWait == 0 {
		cfg.LockWait = DefaultLockWait
	}
	if cfg.StalledCutoff == 0 {
		cfg.StalledCutoff = DefaultStalledCutoff
	}
	if cfg.LedgerAttempts == 0 {
		cfg.LedgerAttempts = DefaultLedgerAttempts
	}
	if cfg.Compensation.MaxAttempts == 0 {
		cfg.Compensation = balance.RetryPolicy{
			MaxAttempts: DefaultCompensationAttempts,
			BaseDelay:   200 * time.Millisecond,
			MaxDelay:    5 * time.Second,
		}
	}

	return &service{
		ledger:   ledger,
		wallet:   wallet,
		notifier: notifier,
		locks:    locks,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*models.TransferRecord, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("submit", time.Since(start)) }()

	if err := validate(req); err != nil {
		return nil, err
	}

	// A key already in the ledger is a replay: return the recorded outcome
	// without touching the wallet service. A pending record means another
	// attempt is still running; only terminal outcomes are replayable.
	if rec, err := s.ledger.GetByIdempotencyKey(ctx, req.IdempotencyKey); err == nil {
		if !rec.Terminal() {
			return nil, ErrDuplicateInFlight
		}
		s.metrics.RecordIdempotentReplay()
		return rec, nil
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}

	keyLock := idemLockPrefix + req.IdempotencyKey
	keyToken, err := s.locks.Acquire(ctx, keyLock, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return nil, ErrDuplicateInFlight
		}
		return nil, err
	}
	defer s.locks.Release(context.WithoutCancel(ctx), keyLock, keyToken)

	if req.Type == models.TransferTypeTopup {
		return s.runTopup(ctx, req)
	}
	return s.runDebitSaga(ctx, req)
}

func validate(req SubmitRequest) error {
	if req.IdempotencyKey == "" {
		return ErrMissingIdempotencyKey
	}
	switch req.Type {
	case models.TransferTypeTransfer, models.TransferTypeTopup, models.TransferTypeWithdrawal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}
	if req.Amount <= 0 {
		return ErrInvalidAmount
	}
	if req.Type == models.TransferTypeTransfer {
		if req.SenderID == req.ReceiverID {
			return ErrSelfTransfer
		}
		if req.ReceiverID == 0 {
			return ErrReceiverNotFound
		}
	}
	return nil
}

// runTopup credits the sender's own wallet. Single-sided, no debit leg.
// The sender lock is still taken: resolving an unknown credit outcome by
// balance delta is only sound while no other mutation can land.
func (s *service) runTopup(ctx context.Context, req SubmitRequest) (*models.TransferRecord, error) {
	lockKey := fmt.Sprintf("%s%d", senderLockPrefix, req.SenderID)
	token, err := s.locks.AcquireWait(ctx, lockKey, s.cfg.LockTTL, s.cfg.LockWait)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return nil, fmt.Errorf("%w: sender has another transfer in flight", ErrRemoteUnavailable)
		}
		return nil, err
	}
	defer s.locks.Release(context.WithoutCancel(ctx), lockKey, token)

	bal, err := s.readBalance(ctx, req.SenderID, ErrSenderNotFound)
	if err != nil {
		return nil, err
	}

	rec := s.newRecord(req, models.StepCreditPending)
	if existing, err := s.createRecord(ctx, rec, req.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}

	dctx := context.WithoutCancel(ctx)
	res := s.wallet.AdjustBalance(dctx, req.SenderID, balance.OpAdd, req.Amount)
	s.metrics.RecordRemoteOutcome("credit", res.Outcome.String())
	switch res.Outcome {
	case balance.OutcomeConfirmed:
		return s.complete(dctx, rec)
	case balance.OutcomeRejected:
		return s.fail(dctx, rec, s.mapRemoteErr(res.Err, ErrSenderNotFound))
	}

	applied, rerr := s.deltaApplied(dctx, req.SenderID, bal.Amount+req.Amount)
	if rerr != nil {
		return s.flagUnresolved(dctx, rec, "topup outcome could not be resolved")
	}
	if applied {
		return s.complete(dctx, rec)
	}
	return s.fail(dctx, rec, s.mapRemoteErr(res.Err, ErrSenderNotFound))
}

// runDebitSaga handles withdrawals and two-party transfers: everything that
// starts by taking money out of the sender's wallet.
func (s *service) runDebitSaga(ctx context.Context, req SubmitRequest) (*models.TransferRecord, error) {
	// Serialize debits per sender so concurrent attempts cannot both pass
	// the balance check against a stale read.
	lockKey := fmt.Sprintf("%s%d", senderLockPrefix, req.SenderID)
	token, err := s.locks.AcquireWait(ctx, lockKey, s.cfg.LockTTL, s.cfg.LockWait)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return nil, fmt.Errorf("%w: sender has another transfer in flight", ErrRemoteUnavailable)
		}
		return nil, err
	}
	defer s.locks.Release(context.WithoutCancel(ctx), lockKey, token)

	senderBal, err := s.readBalance(ctx, req.SenderID, ErrSenderNotFound)
	if err != nil {
		return nil, err
	}
	if senderBal.Amount < req.Amount {
		return nil, fmt.Errorf("%w: balance %s, requested %s",
			ErrInsufficientFunds, money.Format(senderBal.Amount), money.Format(req.Amount))
	}

	var receiverBefore int64
	if req.Type == models.TransferTypeTransfer {
		// Proving the receiver exists before debiting avoids a pointless
		// debit-then-compensate round trip.
		recvBal, err := s.readBalance(ctx, req.ReceiverID, ErrReceiverNotFound)
		if err != nil {
			return nil, err
		}
		receiverBefore = recvBal.Amount
	}

	rec := s.newRecord(req, models.StepDebitPending)
	if existing, err := s.createRecord(ctx, rec, req.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}

	// From the first mutation on, the attempt must reach a terminal state
	// even if the caller goes away.
	dctx := context.WithoutCancel(ctx)

	res := s.wallet.AdjustBalance(dctx, req.SenderID, balance.OpSubtract, req.Amount)
	s.metrics.RecordRemoteOutcome("debit", res.Outcome.String())
	switch res.Outcome {
	case balance.OutcomeRejected:
		return s.fail(dctx, rec, s.mapRemoteErr(res.Err, ErrSenderNotFound))
	case balance.OutcomeUnknown:
		// The debit may have applied. Under the sender lock nobody else is
		// debiting, so the balance tells us.
		applied, rerr := s.deltaApplied(dctx, req.SenderID, senderBal.Amount-req.Amount)
		if rerr != nil {
			return s.flagUnresolved(dctx, rec, "debit outcome could not be resolved")
		}
		if !applied {
			return s.fail(dctx, rec, s.mapRemoteErr(res.Err, ErrSenderNotFound))
		}
	}

	rec.Step = models.StepDebitConfirmed
	s.persistStep(dctx, rec)

	if req.Type == models.TransferTypeWithdrawal {
		return s.complete(dctx, rec)
	}

	rec.Step = models.StepCreditPending
	s.persistStep(dctx, rec)

	credit := s.wallet.AdjustBalance(dctx, req.ReceiverID, balance.OpAdd, req.Amount)
	s.metrics.RecordRemoteOutcome("credit", credit.Outcome.String())
	switch credit.Outcome {
	case balance.OutcomeConfirmed:
		return s.complete(dctx, rec)
	case balance.OutcomeUnknown:
		applied, rerr := s.deltaApplied(dctx, req.ReceiverID, receiverBefore+req.Amount)
		if rerr != nil {
			// Sender is debited and the credit state is unprovable; do not
			// compensate blindly.
			return s.flagUnresolved(dctx, rec, "credit outcome could not be resolved")
		}
		if applied {
			return s.complete(dctx, rec)
		}
	}

	return s.compensate(dctx, rec, senderBal.Amount, credit.Err)
}

// compensate restores a confirmed debit after the credit leg failed.
func (s *service) compensate(ctx context.Context, rec *models.TransferRecord, senderBefore int64, creditErr error) (*models.TransferRecord, error) {
	rec.Step = models.StepCompensating
	s.persistStep(ctx, rec)

	s.logger.Warn("credit failed after confirmed debit, compensating",
		zap.String("transfer_id", rec.ID),
		zap.Uint("sender_id", rec.SenderID),
		zap.String("amount", money.Format(rec.Amount)),
		zap.Error(creditErr))

	restored := s.creditWithRetry(ctx, rec.SenderID, rec.Amount, senderBefore-rec.Amount, "compensation")
	if restored {
		s.metrics.RecordCompensation("reversed")
		rec.Compensated = true
		rec.Step = models.StepDone
		return s.fail(ctx, rec, s.mapRemoteErr(creditErr, ErrReceiverNotFound))
	}

	s.metrics.RecordCompensation("failed")
	s.metrics.RecordReconciliationRequired()
	rec.Status = models.TransferStatusFailed
	rec.Step = models.StepDone
	rec.NeedsReconciliation = true
	rec.FailureReason = "compensation exhausted: sender debited, credit failed"
	if err := s.writeLedger(ctx, rec, false); err != nil {
		s.logger.Error("failed to record compensation failure", zap.String("transfer_id", rec.ID), zap.Error(err))
	}
	s.logger.Error("compensation failed, sender remains debited",
		zap.String("transfer_id", rec.ID),
		zap.Uint("sender_id", rec.SenderID),
		zap.String("amount", money.Format(rec.Amount)))
	s.metrics.RecordTransfer(rec.Type, rec.Status)
	return nil, &CompensationError{RecordID: rec.ID, SenderID: rec.SenderID, Amount: rec.Amount, Err: creditErr}
}

// creditWithRetry pushes amount to userID under the compensation policy.
// before is the balance the account held prior to this credit; unknown
// outcomes are resolved by a balance read against before+amount rather
// than blindly re-sent, since replaying an applied credit mints money.
// Pass before = math.MaxInt64 when the prior balance is unknowable.
func (s *service) creditWithRetry(ctx context.Context, userID uint, amount, before int64, op string) bool {
	expected := before + amount
	if before == math.MaxInt64 {
		expected = math.MaxInt64
	}
	policy := s.cfg.Compensation
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := policy.Sleep(ctx, attempt-1); err != nil {
				return false
			}
		}
		res := s.wallet.AdjustBalance(ctx, userID, balance.OpAdd, amount)
		s.metrics.RecordRemoteOutcome(op, res.Outcome.String())
		switch res.Outcome {
		case balance.OutcomeConfirmed:
			return true
		case balance.OutcomeRejected:
			return false
		}
		if bal, err := s.wallet.GetBalance(ctx, userID); err == nil && bal.Amount >= expected {
			return true
		}
	}
	return false
}

func (s *service) Reverse(ctx context.Context, id string) (*models.TransferRecord, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("reverse", time.Since(start)) }()

	rec, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.TransferStatusCompleted || rec.Type != models.TransferTypeTransfer {
		return nil, ErrNotReversible
	}

	// The original receiver is the debited side now.
	lockKey := fmt.Sprintf("%s%d", senderLockPrefix, rec.ReceiverID)
	token, err := s.locks.AcquireWait(ctx, lockKey, s.cfg.LockTTL, s.cfg.LockWait)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return nil, fmt.Errorf("%w: receiver has another transfer in flight", ErrRemoteUnavailable)
		}
		return nil, err
	}
	defer s.locks.Release(context.WithoutCancel(ctx), lockKey, token)

	// Re-load under the lock: a concurrent reversal may have won the race
	// between the first status check and lock acquisition.
	rec, err = s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.TransferStatusCompleted {
		return nil, ErrNotReversible
	}

	recvBal, err := s.readBalance(ctx, rec.ReceiverID, ErrReceiverNotFound)
	if err != nil {
		return nil, err
	}
	if recvBal.Amount < rec.Amount {
		return nil, fmt.Errorf("%w: receiver balance %s, reversal needs %s",
			ErrInsufficientFunds, money.Format(recvBal.Amount), money.Format(rec.Amount))
	}

	senderBefore := int64(math.MaxInt64)
	if bal, err := s.readBalance(ctx, rec.SenderID, ErrSenderNotFound); err == nil {
		senderBefore = bal.Amount
	}

	dctx := context.WithoutCancel(ctx)
	res := s.wallet.AdjustBalance(dctx, rec.ReceiverID, balance.OpSubtract, rec.Amount)
	s.metrics.RecordRemoteOutcome("reversal_debit", res.Outcome.String())
	switch res.Outcome {
	case balance.OutcomeRejected:
		return nil, s.mapRemoteErr(res.Err, ErrReceiverNotFound)
	case balance.OutcomeUnknown:
		applied, rerr := s.deltaApplied(dctx, rec.ReceiverID, recvBal.Amount-rec.Amount)
		if rerr != nil {
			return s.flagReversalAnomaly(dctx, rec, "reversal debit outcome could not be resolved")
		}
		if !applied {
			return nil, s.mapRemoteErr(res.Err, ErrReceiverNotFound)
		}
	}

	if !s.creditWithRetry(dctx, rec.SenderID, rec.Amount, senderBefore, "reversal_credit") {
		s.metrics.RecordCompensation("failed")
		return s.flagReversalAnomaly(dctx, rec, "reversal credit exhausted: receiver debited, sender not restored")
	}

	rec.Status = models.TransferStatusReversed
	rec.Step = models.StepDone
	if err := s.writeLedger(dctx, rec, false); err != nil {
		return s.flagReversalAnomaly(dctx, rec, "reversal applied but not recorded")
	}
	s.metrics.RecordTransfer(rec.Type, rec.Status)
	s.notify(rec.SenderID, "Transfer Reversed", fmt.Sprintf("Transfer of %s was reversed and returned to you", money.Format(rec.Amount)))
	s.notify(rec.ReceiverID, "Transfer Reversed", fmt.Sprintf("Transfer of %s you received was reversed", money.Format(rec.Amount)))
	return rec, nil
}

// flagReversalAnomaly records a partially applied reversal. The record
// keeps its completed status; only the reconciliation flag changes.
func (s *service) flagReversalAnomaly(ctx context.Context, rec *models.TransferRecord, reason string) (*models.TransferRecord, error) {
	rec.Status = models.TransferStatusCompleted
	rec.NeedsReconciliation = true
	rec.FailureReason = reason
	if err := s.writeLedger(ctx, rec, false); err != nil {
		s.logger.Error("failed to flag reversal anomaly", zap.String("transfer_id", rec.ID), zap.Error(err))
	}
	s.metrics.RecordReconciliationRequired()
	s.logger.Error("reversal flagged for manual reconciliation",
		zap.String("transfer_id", rec.ID), zap.String("reason", reason))
	return nil, fmt.Errorf("%s: %w", reason, ErrReconciliationRequired)
}

func (s *service) GetByID(ctx context.Context, id string) (*models.TransferRecord, error) {
	return s.ledger.GetByID(ctx, id)
}

func (s *service) GetByParticipant(ctx context.Context, userID uint, limit, offset int) ([]models.TransferRecord, int64, error) {
	return s.ledger.GetByParticipant(ctx, userID, limit, offset)
}

func (s *service) RecoverStalled(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.cfg.StalledCutoff)
	records, err := s.ledger.ListStalled(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range records {
		rec := &records[i]
		rec.Status = models.TransferStatusFailed
		rec.NeedsReconciliation = true
		rec.FailureReason = "attempt interrupted at step " + rec.Step
		if err := s.ledger.Update(ctx, rec); err != nil {
			s.logger.Error("failed to flag stalled transfer", zap.String("transfer_id", rec.ID), zap.Error(err))
			continue
		}
		s.metrics.RecordReconciliationRequired()
		s.logger.Error("stalled transfer flagged for reconciliation",
			zap.String("transfer_id", rec.ID),
			zap.String("step", rec.Step),
			zap.Uint("sender_id", rec.SenderID))
		flagged++
	}
	return flagged, nil
}

func (s *service) newRecord(req SubmitRequest, step string) *models.TransferRecord {
	receiver := req.ReceiverID
	if req.Type != models.TransferTypeTransfer {
		receiver = req.SenderID
	}
	description := req.Description
	if description == "" {
		description = req.Type + " transaction"
	}
	return &models.TransferRecord{
		ID:             uuid.NewString(),
		Type:           req.Type,
		SenderID:       req.SenderID,
		ReceiverID:     receiver,
		Amount:         req.Amount,
		Currency:       s.cfg.Currency,
		Description:    description,
		Status:         models.TransferStatusPending,
		Step:           step,
		IdempotencyKey: req.IdempotencyKey,
	}
}

// createRecord inserts the pending record. A duplicate-key race means a
// concurrent submission with the same key won; its outcome is returned.
func (s *service) createRecord(ctx context.Context, rec *models.TransferRecord, key string) (*models.TransferRecord, error) {
	err := s.writeLedger(ctx, rec, true)
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, repositories.ErrDuplicateKey) {
		if existing, lerr := s.ledger.GetByIdempotencyKey(ctx, key); lerr == nil {
			if !existing.Terminal() {
				return nil, ErrDuplicateInFlight
			}
			s.metrics.RecordIdempotentReplay()
			return existing, nil
		}
	}
	return nil, fmt.Errorf("failed to open ledger record: %w", err)
}

// writeLedger persists the record with bounded retries. An unwritable
// ledger on a terminal transition must never be silently ignored.
func (s *service) writeLedger(ctx context.Context, rec *models.TransferRecord, create bool) error {
	var err error
	for attempt := 1; attempt <= s.cfg.LedgerAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}
		if create {
			err = s.ledger.Create(ctx, rec)
		} else {
			err = s.ledger.Update(ctx, rec)
		}
		if err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return err
		}
	}
	return err
}

// persistStep saves saga progress between legs. Best effort: losing a step
// update costs recovery precision, not correctness.
func (s *service) persistStep(ctx context.Context, rec *models.TransferRecord) {
	if err := s.ledger.Update(ctx, rec); err != nil {
		s.logger.Warn("failed to persist saga step",
			zap.String("transfer_id", rec.ID), zap.String("step", rec.Step), zap.Error(err))
	}
}

func (s *service) complete(ctx context.Context, rec *models.TransferRecord) (*models.TransferRecord, error) {
	rec.Status = models.TransferStatusCompleted
	rec.Step = models.StepDone
	if err := s.writeLedger(ctx, rec, false); err != nil {
		// Money moved but the ledger cannot say so. Flag loudly instead of
		// acknowledging an unrecorded transfer.
		s.metrics.RecordReconciliationRequired()
		s.logger.Error("transfer applied but not recorded",
			zap.String("transfer_id", rec.ID), zap.Error(err))
		return nil, fmt.Errorf("transfer applied but not recorded: %w", ErrReconciliationRequired)
	}
	s.metrics.RecordTransfer(rec.Type, rec.Status)
	s.notifyCompleted(rec)
	return rec, nil
}

func (s *service) fail(ctx context.Context, rec *models.TransferRecord, cause error) (*models.TransferRecord, error) {
	rec.Status = models.TransferStatusFailed
	rec.Step = models.StepDone
	if rec.FailureReason == "" && cause != nil {
		rec.FailureReason = cause.Error()
	}
	if err := s.writeLedger(ctx, rec, false); err != nil {
		s.logger.Error("failed to record transfer failure",
			zap.String("transfer_id", rec.ID), zap.Error(err))
	}
	s.metrics.RecordTransfer(rec.Type, rec.Status)
	s.notify(rec.SenderID, "Transfer Failed",
		fmt.Sprintf("Transfer of %s could not be completed", money.Format(rec.Amount)))
	return nil, cause
}

// flagUnresolved handles attempts whose remote state could not be proven
// either way. The record goes terminal and is flagged for reconciliation.
func (s *service) flagUnresolved(ctx context.Context, rec *models.TransferRecord, reason string) (*models.TransferRecord, error) {
	rec.Status = models.TransferStatusFailed
	rec.NeedsReconciliation = true
	rec.FailureReason = reason
	if err := s.writeLedger(ctx, rec, false); err != nil {
		s.logger.Error("failed to flag unresolved transfer",
			zap.String("transfer_id", rec.ID), zap.Error(err))
	}
	s.metrics.RecordReconciliationRequired()
	s.metrics.RecordTransfer(rec.Type, rec.Status)
	s.logger.Error("transfer flagged for manual reconciliation",
		zap.String("transfer_id", rec.ID), zap.String("reason", reason))
	return nil, fmt.Errorf("%s: %w", reason, ErrReconciliationRequired)
}

// readBalance reads a live balance, translating adapter errors into the
// service taxonomy. notFoundAs names the party whose wallet is missing.
func (s *service) readBalance(ctx context.Context, userID uint, notFoundAs error) (*balance.Balance, error) {
	bal, err := s.wallet.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, balance.ErrWalletNotFound) {
			return nil, notFoundAs
		}
		if errors.Is(err, balance.ErrUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
		}
		return nil, err
	}
	return bal, nil
}

// deltaApplied re-reads a balance to resolve an unknown mutation outcome.
// Valid because mutations on the account are serialized by the sender lock.
func (s *service) deltaApplied(ctx context.Context, userID uint, expected int64) (bool, error) {
	bal, err := s.wallet.GetBalance(ctx, userID)
	if err != nil {
		return false, err
	}
	return bal.Amount == expected, nil
}

func (s *service) mapRemoteErr(err error, notFoundAs error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, balance.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, balance.ErrWalletNotFound):
		return notFoundAs
	case errors.Is(err, balance.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	default:
		return err
	}
}

func (s *service) notifyCompleted(rec *models.TransferRecord) {
	amount := money.Format(rec.Amount)
	switch rec.Type {
	case models.TransferTypeTransfer:
		s.notify(rec.SenderID, "Transfer Sent", fmt.Sprintf("Transfer of %s sent successfully", amount))
		s.notify(rec.ReceiverID, "Transfer Received", fmt.Sprintf("You received %s", amount))
	case models.TransferTypeTopup:
		s.notify(rec.SenderID, "Topup Completed", fmt.Sprintf("Topup of %s completed", amount))
	case models.TransferTypeWithdrawal:
		s.notify(rec.SenderID, "Withdrawal Completed", fmt.Sprintf("Withdrawal of %s completed", amount))
	}
}

// notify dispatches one notification in the background. Fire and forget:
// a failed notification never fails the transfer.
func (s *service) notify(userID uint, title, message string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.notifier.Notify(ctx, userID, title, message, "transaction")
	}()
}
