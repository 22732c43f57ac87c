/*
Package transfer orchestrates money movement between wallets that live in a
remote, independently failing wallet service, and records every attempt in
the local transfer ledger.

A submission walks the saga:

	validate -> debit sender -> credit receiver -> record completed

with compensation (re-crediting the sender under bounded retries) when the
credit leg fails after a confirmed debit. Remote mutations are classified as
confirmed, rejected or unknown; unknown outcomes are resolved by a follow-up
balance read instead of being assumed failed.

Usage:

	svc := transfer.NewService(ledger, walletClient, notifier, locker, transfer.Config{}, logger, metrics)

	rec, err := svc.Submit(ctx, transfer.SubmitRequest{
	    SenderID:       1,
	    ReceiverID:     2,
	    Amount:         50000, // minor units
	    Type:           models.TransferTypeTransfer,
	    IdempotencyKey: key,
	})

Guarantees:

  - A record is never marked completed unless every required remote
    mutation was confirmed applied.
  - Replaying an idempotency key returns the recorded outcome without
    touching the wallet service again.
  - Debits for one sender are serialized through a distributed lock, so
    two concurrent transfers cannot both pass the balance check against a
    stale read.
  - Once a debit is confirmed the attempt runs to a terminal state on a
    detached context; it cannot be abandoned mid-compensation.
  - Exhausted compensation surfaces as a CompensationError plus an alert
    metric, never as an ordinary failure.
*/
package transfer
