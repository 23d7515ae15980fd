package cycler

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/wrapforge/wrapcycler/pkg/circuitbreaker"
	"github.com/wrapforge/wrapcycler/pkg/logger"
	"github.com/wrapforge/wrapcycler/pkg/metrics"
)

// State is a named position in the continuous cycle.
type State int

const (
	StateSetup State = iota
	StateCheckBalance
	StateWrap
	StateInterDelay
	StateUnwrap
	StatePairDelay
	StateFailureDelay
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateCheckBalance:
		return "check_balance"
	case StateWrap:
		return "wrap"
	case StateInterDelay:
		return "inter_delay"
	case StateUnwrap:
		return "unwrap"
	case StatePairDelay:
		return "pair_delay"
	case StateFailureDelay:
		return "failure_delay"
	}
	return "unknown"
}

const (
	setupFailureDelay = 60 * time.Second
	balanceRetryDelay = 120 * time.Second
	failureDelay      = 60 * time.Second

	interDelayMin = 10 * time.Second
	interDelayMax = 30 * time.Second
	pairDelayMin  = 300 * time.Second
	pairDelayMax  = 600 * time.Second
)

// ErrSetupFailed terminates the process when the one-time allowance setup
// cannot be satisfied.
var ErrSetupFailed = errors.New("allowance setup failed")

// Bot is what the continuous runner drives: the precondition checks and the
// wrap/unwrap pair, all absorbed into booleans by the executor underneath.
type Bot interface {
	EnsureBalance(ctx context.Context) bool
	EnsureAllowance(ctx context.Context) bool
	Wrap(ctx context.Context, id *big.Int) bool
	Unwrap(ctx context.Context, id *big.Int) bool
}

// Runner is the continuous-mode orchestrator: an explicit state machine that
// rechecks preconditions before every pair and paces pairs with long
// randomized delays. It runs until its context is cancelled or setup fails.
type Runner struct {
	bot     Bot
	breaker *circuitbreaker.Breaker
	log     logger.Logger

	sleep func(time.Duration)
	now   func() time.Time
	rng   *rand.Rand

	pairs     atomic.Uint64
	currentID *big.Int
}

// NewRunner creates a continuous-mode runner. A nil breaker disables the
// failure cooldown.
func NewRunner(bot Bot, breaker *circuitbreaker.Breaker, log logger.Logger) *Runner {
	return &Runner{
		bot:     bot,
		breaker: breaker,
		log:     log,
		sleep:   time.Sleep,
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run drives the state machine until the context is cancelled or setup fails.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("Starting continuous cycle")
	state := StateSetup
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := r.Step(ctx, state)
		if err != nil {
			return err
		}
		state = next
	}
}

// Step performs one state transition and returns the next state. Exposed so
// transitions can be driven one at a time without real waits.
func (r *Runner) Step(ctx context.Context, state State) (State, error) {
	switch state {
	case StateSetup:
		if !r.bot.EnsureAllowance(ctx) {
			r.log.Critical("Allowance setup failed, terminating in %v", setupFailureDelay)
			r.sleep(setupFailureDelay)
			return state, ErrSetupFailed
		}
		return StateCheckBalance, nil

	case StateCheckBalance:
		if r.breaker.IsOpen() {
			cooldown := r.breaker.Cooldown()
			r.log.Warn("Too many consecutive failed pairs, cooling down for %v", cooldown)
			r.sleep(cooldown)
			r.breaker.Reset()
		}
		if !r.bot.EnsureBalance(ctx) {
			r.log.Error("Balance check failed, retrying in %v", balanceRetryDelay)
			r.sleep(balanceRetryDelay)
			return StateCheckBalance, nil
		}
		return StateWrap, nil

	case StateWrap:
		r.currentID = NewTokenID(r.rng, r.now())
		r.log.Info("Starting pair with identifier %s", r.currentID.String())
		if !r.bot.Wrap(ctx, r.currentID) {
			return StateFailureDelay, nil
		}
		return StateInterDelay, nil

	case StateInterDelay:
		r.sleep(randomDelay(r.rng, interDelayMin, interDelayMax))
		return StateUnwrap, nil

	case StateUnwrap:
		if !r.bot.Unwrap(ctx, r.currentID) {
			return StateFailureDelay, nil
		}
		completed := r.pairs.Add(1)
		metrics.PairsCompleted.Inc()
		r.breaker.RecordSuccess()
		r.log.Success("Completed pair %d (identifier %s)", completed, r.currentID.String())
		return StatePairDelay, nil

	case StatePairDelay:
		r.sleep(randomDelay(r.rng, pairDelayMin, pairDelayMax))
		return StateCheckBalance, nil

	case StateFailureDelay:
		// The identifier is never reused; the next pair draws a fresh one.
		metrics.PairsFailed.Inc()
		r.breaker.RecordFailure()
		r.sleep(failureDelay)
		return StateCheckBalance, nil
	}

	return state, fmt.Errorf("unknown state %d", state)
}

// PairsCompleted returns the number of completed wrap/unwrap pairs since startup.
func (r *Runner) PairsCompleted() uint64 {
	return r.pairs.Load()
}

// randomDelay draws a duration uniformly from [min, max].
func randomDelay(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)+1))
}
