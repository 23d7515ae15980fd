package executor

import (
	"context"
	"math/big"
	"math/rand"
	"time"

	"github.com/wrapforge/wrapcycler/pkg/logger"
	"github.com/wrapforge/wrapcycler/pkg/metrics"
)

const (
	// DefaultMaxAttempts is the attempt budget per logical transaction.
	DefaultMaxAttempts = 5

	// feeBumpMax is the upper bound of the random wei offset added to the
	// suggested gas price. A small nudge for relative priority, not an
	// auction strategy.
	feeBumpMax = 100

	rateLimitBackoffMin = 60 * time.Second
	rateLimitBackoffMax = 120 * time.Second
	failoverPause       = 2 * time.Second
)

// Action submits one transaction with the given gas price and blocks until it
// is confirmed or fails. A nil gas price lets the client estimate. Actions are
// constructed fresh per logical transaction and must resolve the live session
// at call time, because a failover between attempts replaces it.
type Action func(ctx context.Context, gasPrice *big.Int) error

// Connection is the failover surface the executor drives. On a network
// failure the executor advances the endpoint selection for all subsequent
// calls, not just the one that triggered it.
type Connection interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	Failover() error
	Endpoint() string
}

// Executor drives the submit, confirm, classify, retry sequence for every
// blockchain write. All failures are absorbed into the boolean result; no
// error escapes Execute.
type Executor struct {
	conn        Connection
	log         logger.Logger
	maxAttempts int

	sleep func(time.Duration)
	rng   *rand.Rand
}

// New creates an executor with the given attempt budget. A non-positive
// budget falls back to the default.
func New(conn Connection, log logger.Logger, maxAttempts int) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Executor{
		conn:        conn,
		log:         log,
		maxAttempts: maxAttempts,
		sleep:       time.Sleep,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Execute runs the action under the attempt budget and reports whether it
// confirmed. Rate limits back off and retry in place, network failures fail
// over to the next endpoint and retry, anything else aborts immediately.
func (e *Executor) Execute(ctx context.Context, label string, action Action) bool {
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			e.log.Error("Aborting %s: %v", label, ctx.Err())
			metrics.TransactionsAbandoned.WithLabelValues(label).Inc()
			return false
		}

		gasPrice := e.perturbedGasPrice(ctx, label)

		err := action(ctx, gasPrice)
		outcome := Classify(err)
		metrics.TransactionAttempts.WithLabelValues(label, outcome.String()).Inc()

		switch outcome {
		case Confirmed:
			e.log.Success("Confirmed %s on attempt %d/%d", label, attempt, e.maxAttempts)
			metrics.TransactionsConfirmed.WithLabelValues(label).Inc()
			return true

		case RateLimited:
			if attempt == e.maxAttempts {
				e.log.Error("Abandoning %s: rate limited on final attempt %d/%d: %v", label, attempt, e.maxAttempts, err)
				metrics.TransactionsAbandoned.WithLabelValues(label).Inc()
				return false
			}
			backoff := e.rateLimitBackoff()
			e.log.Warn("Rate limited on %s (attempt %d/%d), backing off %v: %v", label, attempt, e.maxAttempts, backoff, err)
			metrics.RateLimitBackoffs.Inc()
			e.sleep(backoff)

		case NetworkFailure:
			e.log.Warn("Network failure on %s (attempt %d/%d) via %s: %v", label, attempt, e.maxAttempts, e.conn.Endpoint(), err)
			if ferr := e.conn.Failover(); ferr != nil {
				// The replacement endpoint may be down too; the next attempt
				// will classify that on its own.
				e.log.Warn("Failover failed: %v", ferr)
			}
			e.sleep(failoverPause)

		default:
			e.log.Error("Abandoning %s after fatal error on attempt %d/%d: %v", label, attempt, e.maxAttempts, err)
			metrics.TransactionsAbandoned.WithLabelValues(label).Inc()
			return false
		}
	}

	e.log.Error("Abandoning %s: attempt budget of %d exhausted", label, e.maxAttempts)
	metrics.TransactionsAbandoned.WithLabelValues(label).Inc()
	return false
}

// perturbedGasPrice queries the fee estimate and nudges it upward by a random
// 1-100 wei. A failed estimate is not fatal: the action runs with a nil gas
// price and the client estimates on its own.
func (e *Executor) perturbedGasPrice(ctx context.Context, label string) *big.Int {
	gasPrice, err := e.conn.SuggestGasPrice(ctx)
	if err != nil {
		e.log.Warn("Failed to get gas price for %s, deferring to client estimate: %v", label, err)
		return nil
	}
	bump := big.NewInt(int64(1 + e.rng.Intn(feeBumpMax)))
	return new(big.Int).Add(gasPrice, bump)
}

func (e *Executor) rateLimitBackoff() time.Duration {
	window := int64(rateLimitBackoffMax - rateLimitBackoffMin)
	return rateLimitBackoffMin + time.Duration(e.rng.Int63n(window+1))
}
