package cycler

import (
	"context"
	"math/big"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/wrapforge/wrapcycler/pkg/executor"
	"github.com/wrapforge/wrapcycler/pkg/logger"
	"github.com/wrapforge/wrapcycler/pkg/metrics"
)

var (
	// MaxUint256 represents the maximum possible uint256 value (2^256 - 1),
	// used for unlimited approvals.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// AllowanceThreshold is the sufficiency bar for the wrapper allowance.
	// Anything at or above half of the unlimited approval never needs topping
	// up within the lifetime of a run.
	AllowanceThreshold = new(big.Int).Rsh(MaxUint256, 1)

	// MintAmount is the fixed amount minted when the balance runs empty
	// (1000 tokens at 18 decimals).
	MintAmount = new(big.Int).Mul(big.NewInt(1000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
)

const (
	allowanceCacheKey = "wrapper_allowance"

	allowanceCacheTTL     = 10 * time.Minute
	allowanceCacheCleanup = 30 * time.Minute
)

// Chain is the set of typed operations the service runs against the current
// RPC session. Reads return errors; writes submit a transaction and wait for
// it to be mined.
type Chain interface {
	BalanceOf(ctx context.Context) (*big.Int, error)
	Allowance(ctx context.Context) (*big.Int, error)
	Mint(ctx context.Context, gasPrice, amount *big.Int) error
	Approve(ctx context.Context, gasPrice, amount *big.Int) error
	Wrap(ctx context.Context, gasPrice, id *big.Int) error
	Unwrap(ctx context.Context, gasPrice, id *big.Int) error
}

// Executor runs one blockchain write under the retry/failover/abort policy.
type Executor interface {
	Execute(ctx context.Context, label string, action executor.Action) bool
}

// Service implements the precondition checks and the wrap/unwrap operations
// on top of the transaction executor.
type Service struct {
	chain Chain
	exec  Executor
	log   logger.Logger

	// allowance reads are cached: once the unlimited approval is confirmed
	// there is no point re-reading it before every pair
	reads *cache.Cache
}

// NewService creates the cycle service over the given chain access and executor.
func NewService(chain Chain, exec Executor, log logger.Logger) *Service {
	return &Service{
		chain: chain,
		exec:  exec,
		log:   log,
		reads: cache.New(allowanceCacheTTL, allowanceCacheCleanup),
	}
}

// EnsureBalance reads the current token balance and mints a fixed amount if
// it is exactly zero. Idempotent; a read failure is reported and returned as
// false without retrying.
func (s *Service) EnsureBalance(ctx context.Context) bool {
	balance, err := s.chain.BalanceOf(ctx)
	if err != nil {
		s.log.Error("Failed to read token balance: %v", err)
		metrics.ReadFailures.WithLabelValues("balance").Inc()
		return false
	}

	balanceFloat, _ := new(big.Float).SetInt(balance).Float64()
	metrics.TokenBalance.Set(balanceFloat)

	if balance.Sign() > 0 {
		s.log.Debug("Token balance %s is sufficient", balance.String())
		return true
	}

	s.log.Info("Token balance is zero, minting %s", MintAmount.String())
	return s.MintTokens(ctx)
}

// EnsureAllowance reads the allowance granted to the wrapper contract and
// submits an unlimited approval if it is below the sufficiency threshold.
// Idempotent; a read failure is reported and returned as false without retrying.
func (s *Service) EnsureAllowance(ctx context.Context) bool {
	if cached, found := s.reads.Get(allowanceCacheKey); found {
		if cached.(*big.Int).Cmp(AllowanceThreshold) >= 0 {
			s.log.Debug("Using cached wrapper allowance")
			return true
		}
	}

	allowance, err := s.chain.Allowance(ctx)
	if err != nil {
		s.log.Error("Failed to read wrapper allowance: %v", err)
		metrics.ReadFailures.WithLabelValues("allowance").Inc()
		return false
	}

	if allowance.Cmp(AllowanceThreshold) >= 0 {
		s.log.Debug("Wrapper allowance %s is sufficient", allowance.String())
		s.reads.Set(allowanceCacheKey, allowance, cache.DefaultExpiration)
		return true
	}

	s.log.Info("Wrapper allowance %s below threshold, approving unlimited", allowance.String())
	if !s.ApproveWrapper(ctx) {
		return false
	}
	s.reads.Set(allowanceCacheKey, MaxUint256, cache.DefaultExpiration)
	return true
}

// MintTokens unconditionally mints the fixed amount to the signing address.
func (s *Service) MintTokens(ctx context.Context) bool {
	return s.exec.Execute(ctx, "mint", func(ctx context.Context, gasPrice *big.Int) error {
		return s.chain.Mint(ctx, gasPrice, MintAmount)
	})
}

// ApproveWrapper unconditionally grants the wrapper contract an unlimited allowance.
func (s *Service) ApproveWrapper(ctx context.Context) bool {
	return s.exec.Execute(ctx, "approve", func(ctx context.Context, gasPrice *big.Int) error {
		return s.chain.Approve(ctx, gasPrice, MaxUint256)
	})
}

// Wrap submits a wrap of the given identifier through the executor.
func (s *Service) Wrap(ctx context.Context, id *big.Int) bool {
	return s.exec.Execute(ctx, "wrap", func(ctx context.Context, gasPrice *big.Int) error {
		return s.chain.Wrap(ctx, gasPrice, id)
	})
}

// Unwrap submits an unwrap of the given identifier through the executor.
func (s *Service) Unwrap(ctx context.Context, id *big.Int) bool {
	return s.exec.Execute(ctx, "unwrap", func(ctx context.Context, gasPrice *big.Int) error {
		return s.chain.Unwrap(ctx, gasPrice, id)
	})
}
