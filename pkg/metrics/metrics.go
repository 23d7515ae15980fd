package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	TransactionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wrapcycler_transaction_attempts_total",
		Help: "The total number of transaction submission attempts by label and outcome",
	}, []string{"label", "outcome"})

	TransactionsConfirmed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wrapcycler_transactions_confirmed_total",
		Help: "The total number of confirmed transactions by label",
	}, []string{"label"})

	TransactionsAbandoned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wrapcycler_transactions_abandoned_total",
		Help: "The total number of transactions abandoned after exhausting the attempt budget or a fatal error",
	}, []string{"label"})

	RateLimitBackoffs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wrapcycler_rate_limit_backoffs_total",
		Help: "The total number of randomized backoffs taken after a rate-limited attempt",
	})

	EndpointFailovers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wrapcycler_endpoint_failovers_total",
		Help: "The total number of RPC endpoint failovers",
	})

	ReadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wrapcycler_read_failures_total",
		Help: "The total number of failed balance or allowance reads",
	}, []string{"operation"})

	PairsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wrapcycler_pairs_completed_total",
		Help: "The total number of completed wrap/unwrap pairs",
	})

	PairsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wrapcycler_pairs_failed_total",
		Help: "The total number of abandoned wrap/unwrap pairs",
	})

	GasPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wrapcycler_gas_price_gwei",
		Help: "Last suggested gas price in gwei",
	})

	TokenBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wrapcycler_token_balance",
		Help: "Last observed token balance of the signing address in base units",
	})

	// Batch mode metrics
	BatchPairGoal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wrapcycler_batch_pair_goal",
		Help: "Pair goal drawn for the current daily batch",
	})

	BatchPairsCompleted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wrapcycler_batch_pairs_completed",
		Help: "Pairs completed in the current daily batch",
	})
)
