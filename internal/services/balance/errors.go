package balance

import "errors"

// Adapter errors
var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrRejected          = errors.New("wallet service rejected the request")
	ErrUnavailable       = errors.New("wallet service unavailable")
)
