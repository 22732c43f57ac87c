package transfer

import "time"

// Default configuration values
const (
	DefaultCurrency             = "IDR"
	DefaultLockTTL              = 30 * time.Second
	DefaultLockWait             = 5 * time.Second
	DefaultStalledCutoff        = 5 * time.Minute
	DefaultLedgerAttempts       = 3
	DefaultCompensationAttempts = 5
)

// Lock key prefixes
const (
	senderLockPrefix = "transfer:sender:"
	idemLockPrefix   = "transfer:key:"
)
