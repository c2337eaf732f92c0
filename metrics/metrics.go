package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ServiceStatus represents the current status of the settlement service
	ServiceStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pools_service_status",
		Help: "Current status of the service (1 for active, 0 for inactive)",
	})

	// StoreVersion represents the committed version of the state store
	StoreVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pools_store_version",
		Help: "Latest committed version of the state store",
	})

	// PoolMetrics represents various pool-related metrics
	PoolMetrics = struct {
		Count              prometheus.Gauge
		PendingWithdrawals prometheus.Gauge
	}{
		Count: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pools_pool_total",
			Help: "Total number of liquidity pools",
		}),
		PendingWithdrawals: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pools_pending_withdrawal_total",
			Help: "Number of pending withdrawal requests",
		}),
	}

	// WithdrawalMetrics represents withdrawal settlement metrics
	WithdrawalMetrics = struct {
		Initiated prometheus.Counter
		Cancelled prometheus.Counter
		Processed *prometheus.CounterVec
	}{
		Initiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pools_withdrawal_initiated_total",
			Help: "Total number of withdrawal requests initiated",
		}),
		Cancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pools_withdrawal_cancelled_total",
			Help: "Total number of withdrawal requests cancelled",
		}),
		Processed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pools_withdrawal_processed_total",
			Help: "Total number of withdrawals settled, by settlement regime",
		}, []string{"regime"}),
	}

	// DepositsProcessed counts the deposits accepted into pools
	DepositsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pools_deposit_total",
		Help: "Total number of deposits accepted",
	})

	// RequestDuration observes the duration of rpc requests by route
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pools_rpc_request_duration_seconds",
		Help:    "Duration of rpc requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// CommitDuration observes the duration of state store commits
	CommitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pools_store_commit_duration_seconds",
		Help:    "Duration of state store commits in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
