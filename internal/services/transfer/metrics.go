package transfer

import "time"

// MetricsCollector receives orchestrator metrics. The reconciliation and
// compensation signals back the operator alerting required for transfers
// whose money state the ledger cannot prove.
type MetricsCollector interface {
	RecordTransfer(txType, status string)
	RecordOperationDuration(operation string, d time.Duration)
	RecordRemoteOutcome(operation, outcome string)
	RecordIdempotentReplay()
	RecordCompensation(result string)
	RecordReconciliationRequired()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransfer(string, string)                {}
func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordRemoteOutcome(string, string)           {}
func (n *NoopMetricsCollector) RecordIdempotentReplay()                      {}
func (n *NoopMetricsCollector) RecordCompensation(string)                    {}
func (n *NoopMetricsCollector) RecordReconciliationRequired()                {}
