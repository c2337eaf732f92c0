package metrics

import (
	"time"
)

// UpdateServiceStatus updates the service status
func UpdateServiceStatus(active bool) {
	if active {
		ServiceStatus.Set(1)
	} else {
		ServiceStatus.Set(0)
	}
}

// UpdateStoreVersion updates the committed store version
func UpdateStoreVersion(version uint64) {
	StoreVersion.Set(float64(version))
}

// UpdatePoolMetrics updates the pool count and pending withdrawal gauges
func UpdatePoolMetrics(pools, pendingWithdrawals int) {
	PoolMetrics.Count.Set(float64(pools))
	PoolMetrics.PendingWithdrawals.Set(float64(pendingWithdrawals))
}

// UpdateWithdrawalInitiated increments the counter for initiated withdrawal requests
func UpdateWithdrawalInitiated() {
	WithdrawalMetrics.Initiated.Inc()
}

// UpdateWithdrawalCancelled increments the counter for cancelled withdrawal requests
func UpdateWithdrawalCancelled() {
	WithdrawalMetrics.Cancelled.Inc()
}

// UpdateWithdrawalProcessed increments the settlement counter for a regime
func UpdateWithdrawalProcessed(regime string) {
	WithdrawalMetrics.Processed.WithLabelValues(regime).Inc()
}

// UpdateDepositProcessed increments the counter for accepted deposits
func UpdateDepositProcessed() {
	DepositsProcessed.Inc()
}

// UpdateRequestDuration observes the duration of an rpc request for a route
func UpdateRequestDuration(route string, duration time.Duration) {
	RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// UpdateCommitDuration observes the duration of a state store commit
func UpdateCommitDuration(duration time.Duration) {
	CommitDuration.Observe(duration.Seconds())
}
