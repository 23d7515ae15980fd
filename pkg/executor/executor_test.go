package executor

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrapforge/wrapcycler/pkg/logger"
)

// fakeConnection records failovers and serves a canned gas price.
type fakeConnection struct {
	gasPrice    *big.Int
	gasPriceErr error
	failoverErr error

	suggestCalls  int
	failoverCalls int
}

func (c *fakeConnection) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	c.suggestCalls++
	if c.gasPriceErr != nil {
		return nil, c.gasPriceErr
	}
	return new(big.Int).Set(c.gasPrice), nil
}

func (c *fakeConnection) Failover() error {
	c.failoverCalls++
	return c.failoverErr
}

func (c *fakeConnection) Endpoint() string {
	return "https://rpc.example"
}

// newTestExecutor builds an executor with a recorded sleep and a fixed seed so
// tests never wait on the wall clock.
func newTestExecutor(conn Connection, maxAttempts int) (*Executor, *[]time.Duration) {
	var slept []time.Duration
	e := New(conn, &logger.EmptyLogger{}, maxAttempts)
	e.sleep = func(d time.Duration) { slept = append(slept, d) }
	e.rng = rand.New(rand.NewSource(1))
	return e, &slept
}

func TestExecuteConfirmsFirstAttempt(t *testing.T) {
	conn := &fakeConnection{gasPrice: big.NewInt(1000)}
	e, slept := newTestExecutor(conn, 5)

	calls := 0
	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, gasPrice *big.Int) error {
		calls++
		require.NotNil(t, gasPrice)
		return nil
	})

	assert.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
	assert.Equal(t, 0, conn.failoverCalls)
}

func TestExecutePerturbsGasPrice(t *testing.T) {
	base := big.NewInt(1000)
	conn := &fakeConnection{gasPrice: base}
	e, _ := newTestExecutor(conn, 5)

	for i := 0; i < 50; i++ {
		e.Execute(context.Background(), "wrap", func(_ context.Context, gasPrice *big.Int) error {
			bump := new(big.Int).Sub(gasPrice, base).Int64()
			assert.GreaterOrEqual(t, bump, int64(1))
			assert.LessOrEqual(t, bump, int64(100))
			return nil
		})
	}
}

func TestExecuteGasPriceFailureFallsBackToClientEstimate(t *testing.T) {
	conn := &fakeConnection{gasPriceErr: errors.New("something unexpected")}
	e, _ := newTestExecutor(conn, 5)

	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, gasPrice *big.Int) error {
		assert.Nil(t, gasPrice)
		return nil
	})
	assert.True(t, ok)
}

func TestExecuteRateLimitedRetriesThenAbandons(t *testing.T) {
	conn := &fakeConnection{gasPrice: big.NewInt(1000)}
	e, slept := newTestExecutor(conn, 5)

	calls := 0
	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, _ *big.Int) error {
		calls++
		return errors.New("429 Too Many Requests")
	})

	assert.False(t, ok)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 0, conn.failoverCalls)

	// Four backoffs: the final attempt abandons without sleeping.
	require.Len(t, *slept, 4)
	for _, d := range *slept {
		assert.GreaterOrEqual(t, d, 60*time.Second)
		assert.LessOrEqual(t, d, 120*time.Second)
	}
}

func TestExecuteRecoversAfterRateLimit(t *testing.T) {
	conn := &fakeConnection{gasPrice: big.NewInt(1000)}
	e, slept := newTestExecutor(conn, 5)

	calls := 0
	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, _ *big.Int) error {
		calls++
		if calls < 3 {
			return errors.New("rate limit exceeded")
		}
		return nil
	})

	assert.True(t, ok)
	assert.Equal(t, 3, calls)
	assert.Len(t, *slept, 2)
}

func TestExecuteNetworkFailureFailsOver(t *testing.T) {
	conn := &fakeConnection{gasPrice: big.NewInt(1000)}
	e, slept := newTestExecutor(conn, 5)

	calls := 0
	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, _ *big.Int) error {
		calls++
		if calls == 1 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})

	assert.True(t, ok)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, conn.failoverCalls)
	require.Len(t, *slept, 1)
	assert.Equal(t, 2*time.Second, (*slept)[0])
}

func TestExecuteNetworkFailuresExhaustBudget(t *testing.T) {
	conn := &fakeConnection{gasPrice: big.NewInt(1000)}
	e, _ := newTestExecutor(conn, 3)

	calls := 0
	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, _ *big.Int) error {
		calls++
		return errors.New("connection reset by peer")
	})

	assert.False(t, ok)
	assert.Equal(t, 3, calls)
	// Every network failure advances the endpoint, including the last attempt.
	assert.Equal(t, 3, conn.failoverCalls)
}

func TestExecuteFailedFailoverStillConsumesAttempts(t *testing.T) {
	conn := &fakeConnection{
		gasPrice:    big.NewInt(1000),
		failoverErr: errors.New("dial tcp: connection refused"),
	}
	e, _ := newTestExecutor(conn, 3)

	calls := 0
	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, _ *big.Int) error {
		calls++
		return errors.New("no response from endpoint")
	})

	assert.False(t, ok)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, conn.failoverCalls)
}

func TestExecuteFatalErrorAbortsImmediately(t *testing.T) {
	conn := &fakeConnection{gasPrice: big.NewInt(1000)}
	e, slept := newTestExecutor(conn, 5)

	calls := 0
	ok := e.Execute(context.Background(), "wrap", func(_ context.Context, _ *big.Int) error {
		calls++
		return errors.New("wrap transaction reverted: 0xabc")
	})

	assert.False(t, ok)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
	assert.Equal(t, 0, conn.failoverCalls)
}

func TestExecuteCancelledContext(t *testing.T) {
	conn := &fakeConnection{gasPrice: big.NewInt(1000)}
	e, _ := newTestExecutor(conn, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	ok := e.Execute(ctx, "wrap", func(_ context.Context, _ *big.Int) error {
		calls++
		return nil
	})

	assert.False(t, ok)
	assert.Equal(t, 0, calls)
}

func TestNewDefaultsAttemptBudget(t *testing.T) {
	e := New(&fakeConnection{}, &logger.EmptyLogger{}, 0)
	assert.Equal(t, DefaultMaxAttempts, e.maxAttempts)

	e = New(&fakeConnection{}, &logger.EmptyLogger{}, -1)
	assert.Equal(t, DefaultMaxAttempts, e.maxAttempts)

	e = New(&fakeConnection{}, &logger.EmptyLogger{}, 7)
	assert.Equal(t, 7, e.maxAttempts)
}
