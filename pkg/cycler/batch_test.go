package cycler

import (
	"context"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrapforge/wrapcycler/pkg/logger"
)

// fakeBatchBot scripts the outcome of each operation and records calls.
type fakeBatchBot struct {
	mintOK    bool
	approveOK bool
	wrapOK    func(call int) bool
	unwrapOK  bool

	mintCalls    int
	approveCalls int
	wrapIDs      []*big.Int
	unwrapIDs    []*big.Int
}

func (b *fakeBatchBot) MintTokens(_ context.Context) bool {
	b.mintCalls++
	return b.mintOK
}

func (b *fakeBatchBot) ApproveWrapper(_ context.Context) bool {
	b.approveCalls++
	return b.approveOK
}

func (b *fakeBatchBot) Wrap(_ context.Context, id *big.Int) bool {
	b.wrapIDs = append(b.wrapIDs, id)
	if b.wrapOK == nil {
		return true
	}
	return b.wrapOK(len(b.wrapIDs))
}

func (b *fakeBatchBot) Unwrap(_ context.Context, id *big.Int) bool {
	b.unwrapIDs = append(b.unwrapIDs, id)
	return b.unwrapOK
}

func newTestBatchRunner(bot BatchBot) (*BatchRunner, *[]time.Duration, *time.Time) {
	var slept []time.Duration
	clock := time.Unix(1724500000, 0)
	r := NewBatchRunner(bot, &logger.EmptyLogger{})
	r.sleep = func(d time.Duration) { slept = append(slept, d) }
	r.now = func() time.Time { return clock }
	r.rng = rand.New(rand.NewSource(1))
	return r, &slept, &clock
}

func TestRunBatchCompletesGoal(t *testing.T) {
	bot := &fakeBatchBot{mintOK: true, approveOK: true, unwrapOK: true}
	r, slept, _ := newTestBatchRunner(bot)

	r.RunBatch(context.Background())

	goal := len(bot.wrapIDs)
	assert.GreaterOrEqual(t, goal, 25)
	assert.LessOrEqual(t, goal, 50)

	// Preparation runs exactly once regardless of existing balances.
	assert.Equal(t, 1, bot.mintCalls)
	assert.Equal(t, 1, bot.approveCalls)

	require.Len(t, bot.unwrapIDs, goal)
	for i := range bot.wrapIDs {
		assert.Zero(t, bot.wrapIDs[i].Cmp(bot.unwrapIDs[i]))
	}
	assert.Equal(t, uint64(goal), r.PairsCompleted())

	// One post-wrap delay per pair, a between-pairs delay for all but the
	// last, and the final remainder-of-day sleep.
	require.Len(t, *slept, 2*goal)
	assert.Equal(t, batchPeriod, (*slept)[len(*slept)-1])
}

func TestRunBatchPreparationFailureDoesNotAbort(t *testing.T) {
	bot := &fakeBatchBot{mintOK: false, approveOK: false, unwrapOK: true}
	r, _, _ := newTestBatchRunner(bot)

	r.RunBatch(context.Background())

	assert.Equal(t, 1, bot.mintCalls)
	assert.Equal(t, 1, bot.approveCalls)
	assert.NotEmpty(t, bot.wrapIDs)
}

func TestRunBatchPairFailureContinues(t *testing.T) {
	// Every odd wrap fails; the batch still attempts the full goal.
	bot := &fakeBatchBot{
		mintOK:    true,
		approveOK: true,
		unwrapOK:  true,
		wrapOK:    func(call int) bool { return call%2 == 0 },
	}
	r, _, _ := newTestBatchRunner(bot)

	r.RunBatch(context.Background())

	goal := len(bot.wrapIDs)
	assert.GreaterOrEqual(t, goal, 25)
	assert.Equal(t, goal/2, len(bot.unwrapIDs))
	assert.Equal(t, uint64(goal/2), r.PairsCompleted())
}

func TestRunBatchFailedWrapSkipsUnwrap(t *testing.T) {
	bot := &fakeBatchBot{
		mintOK:    true,
		approveOK: true,
		unwrapOK:  true,
		wrapOK:    func(int) bool { return false },
	}
	r, slept, _ := newTestBatchRunner(bot)

	r.RunBatch(context.Background())

	assert.Empty(t, bot.unwrapIDs)
	assert.Equal(t, uint64(0), r.PairsCompleted())

	// No post-wrap delays, only between-pairs delays and the final sleep.
	goal := len(bot.wrapIDs)
	assert.Len(t, *slept, goal)
}

func TestRunBatchRemainderClampedToZero(t *testing.T) {
	bot := &fakeBatchBot{mintOK: true, approveOK: true, unwrapOK: true}
	r, slept, clock := newTestBatchRunner(bot)

	// Advance the clock past the full period on every read so the batch
	// overruns its day.
	base := *clock
	calls := 0
	r.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 25 * time.Hour)
	}

	r.RunBatch(context.Background())

	for _, d := range *slept {
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, batchPeriod)
	}
}

func TestRunBatchStopsOnContextCancel(t *testing.T) {
	bot := &fakeBatchBot{mintOK: true, approveOK: true, unwrapOK: true}
	r, _, _ := newTestBatchRunner(bot)

	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	r.sleep = func(time.Duration) {
		sleeps++
		if sleeps >= 3 {
			cancel()
		}
	}

	r.RunBatch(ctx)
	assert.Less(t, len(bot.wrapIDs), 25)
}
