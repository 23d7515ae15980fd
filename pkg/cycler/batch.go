package cycler

import (
	"context"
	"math/big"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/wrapforge/wrapcycler/pkg/logger"
	"github.com/wrapforge/wrapcycler/pkg/metrics"
)

const (
	batchPeriod = 24 * time.Hour

	pairGoalMin = 25
	pairGoalMax = 50

	postWrapDelayMin = 30 * time.Second
	postWrapDelayMax = 60 * time.Second

	betweenPairsDelayMin = 10 * time.Second
	betweenPairsDelayMax = 20 * time.Second
)

// BatchBot is what the batch runner drives. Unlike the continuous mode, the
// daily preparation mints and approves unconditionally.
type BatchBot interface {
	MintTokens(ctx context.Context) bool
	ApproveWrapper(ctx context.Context) bool
	Wrap(ctx context.Context, id *big.Int) bool
	Unwrap(ctx context.Context, id *big.Int) bool
}

// BatchRunner is the batch-mode orchestrator: once per 24 hour wall-clock
// period it draws a random pair goal, prepares the wallet once, runs the
// pairs back to back with short randomized delays and sleeps out the rest of
// the day. Individual pair failures never abort the batch.
type BatchRunner struct {
	bot BatchBot
	log logger.Logger

	sleep func(time.Duration)
	now   func() time.Time
	rng   *rand.Rand

	pairs atomic.Uint64
}

// NewBatchRunner creates a batch-mode runner.
func NewBatchRunner(bot BatchBot, log logger.Logger) *BatchRunner {
	return &BatchRunner{
		bot:   bot,
		log:   log,
		sleep: time.Sleep,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes daily batches until the context is cancelled.
func (r *BatchRunner) Run(ctx context.Context) error {
	r.log.Info("Starting daily batch cycle")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.RunBatch(ctx)
	}
}

// RunBatch executes one daily batch and sleeps out the remainder of the
// period, clamped to zero if the batch overran it.
func (r *BatchRunner) RunBatch(ctx context.Context) {
	start := r.now()
	goal := pairGoalMin + r.rng.Intn(pairGoalMax-pairGoalMin+1)
	metrics.BatchPairGoal.Set(float64(goal))
	metrics.BatchPairsCompleted.Set(0)
	r.log.Info("Daily batch started with a goal of %d pairs", goal)

	// One-time preparation, always executed. A failed preparation is logged
	// and the batch proceeds on whatever balance and allowance exist.
	if !r.bot.MintTokens(ctx) {
		r.log.Error("Mint preparation failed, continuing with existing balance")
	}
	if !r.bot.ApproveWrapper(ctx) {
		r.log.Error("Approve preparation failed, continuing with existing allowance")
	}

	completed := 0
	for i := 0; i < goal; i++ {
		if ctx.Err() != nil {
			return
		}

		id := NewTokenID(r.rng, r.now())
		if r.bot.Wrap(ctx, id) {
			r.sleep(randomDelay(r.rng, postWrapDelayMin, postWrapDelayMax))
			if r.bot.Unwrap(ctx, id) {
				completed++
				r.pairs.Add(1)
				metrics.PairsCompleted.Inc()
				metrics.BatchPairsCompleted.Set(float64(completed))
			} else {
				metrics.PairsFailed.Inc()
			}
		} else {
			metrics.PairsFailed.Inc()
		}

		if i < goal-1 {
			r.sleep(randomDelay(r.rng, betweenPairsDelayMin, betweenPairsDelayMax))
		}
	}

	r.log.Success("Daily batch finished: %d/%d pairs completed", completed, goal)

	remaining := batchPeriod - r.now().Sub(start)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > 0 {
		r.log.Info("Sleeping %v until the next daily batch", remaining)
		r.sleep(remaining)
	}
}

// PairsCompleted returns the number of completed wrap/unwrap pairs since startup.
func (r *BatchRunner) PairsCompleted() uint64 {
	return r.pairs.Load()
}
