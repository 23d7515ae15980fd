package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/wrapforge/wrapcycler/pkg/contracts"
	"github.com/wrapforge/wrapcycler/pkg/logger"
	"github.com/wrapforge/wrapcycler/pkg/metrics"
)

const rpcCallTimeout = 10 * time.Second

// Session binds one endpoint and the signing identity into live handles for
// the token and wrapper contracts. Sessions are replaced whole on failover,
// never mutated field by field.
type Session struct {
	Endpoint string
	Client   *ethclient.Client
	Auth     *bind.TransactOpts
	Token    *contracts.Token
	Wrapper  *contracts.Wrapper
}

// Connect establishes a session against the given endpoint.
func Connect(endpoint, privateKey string, tokenAddress, wrapperAddress common.Address) (*Session, error) {
	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", endpoint, err)
	}

	auth, err := createAuthenticator(client, privateKey)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create authenticator for %s: %v", endpoint, err)
	}

	token, err := contracts.NewToken(tokenAddress, client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize token contract: %v", err)
	}

	wrapper, err := contracts.NewWrapper(wrapperAddress, client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize wrapper contract: %v", err)
	}

	return &Session{
		Endpoint: endpoint,
		Client:   client,
		Auth:     auth,
		Token:    token,
		Wrapper:  wrapper,
	}, nil
}

// Close releases the underlying RPC connection.
func (s *Session) Close() {
	if s.Client != nil {
		s.Client.Close()
	}
}

// Helper function to create authenticator
func createAuthenticator(client *ethclient.Client, privateKeyHex string) (*bind.TransactOpts, error) {
	// Parse private key
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	// Get chain ID
	chainID, err := client.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %v", err)
	}

	// Create transaction signer
	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %v", err)
	}

	return auth, nil
}

// Manager owns the endpoint pool and the single live session. It exposes the
// typed chain operations the rest of the service runs against; every write
// submits a transaction and waits for it to be mined.
type Manager struct {
	mu             sync.Mutex
	pool           *Pool
	privateKey     string
	tokenAddress   common.Address
	wrapperAddress common.Address
	session        *Session
	log            logger.Logger
}

// NewManager creates a manager over the given pool. Connect must be called
// before the first operation.
func NewManager(pool *Pool, privateKey, tokenAddress, wrapperAddress string, log logger.Logger) *Manager {
	return &Manager{
		pool:           pool,
		privateKey:     privateKey,
		tokenAddress:   common.HexToAddress(tokenAddress),
		wrapperAddress: common.HexToAddress(wrapperAddress),
		log:            log,
	}
}

// Connect establishes a session against the pool's current endpoint.
func (m *Manager) Connect() error {
	session, err := Connect(m.pool.Current(), m.privateKey, m.tokenAddress, m.wrapperAddress)
	if err != nil {
		return err
	}

	m.mu.Lock()
	old := m.session
	m.session = session
	m.mu.Unlock()

	if old != nil {
		old.Close()
	}
	m.log.Info("Connected to RPC endpoint %s", session.Endpoint)
	return nil
}

// Failover advances the pool to the next endpoint and rebuilds the session
// against it. The new endpoint is not probed beyond the rebuild itself; if it
// is also down, the next operation surfaces that as another network failure.
func (m *Manager) Failover() error {
	next := m.pool.Advance()
	metrics.EndpointFailovers.Inc()
	m.log.Warn("Failing over to RPC endpoint %s", next)
	return m.Connect()
}

// Endpoint returns the endpoint of the live session, or the pool's current
// endpoint if no session is established.
func (m *Manager) Endpoint() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return m.session.Endpoint
	}
	return m.pool.Current()
}

// Connected reports whether a session is established.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Owner returns the signing address.
func (m *Manager) Owner() common.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return common.Address{}
	}
	return m.session.Auth.From
}

// Close releases the live session.
func (m *Manager) Close() {
	m.mu.Lock()
	session := m.session
	m.session = nil
	m.mu.Unlock()
	if session != nil {
		session.Close()
	}
}

func (m *Manager) current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, fmt.Errorf("rpc endpoint not connected")
	}
	return m.session, nil
}

// SuggestGasPrice queries the current network fee estimate.
func (m *Manager) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	session, err := m.current()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()

	gasPrice, err := session.Client.SuggestGasPrice(timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %v", err)
	}

	gasPriceGwei, _ := new(big.Float).Quo(
		new(big.Float).SetInt(gasPrice),
		big.NewFloat(1e9),
	).Float64()
	metrics.GasPrice.Set(gasPriceGwei)

	return gasPrice, nil
}

// BalanceOf reads the token balance of the signing address.
func (m *Manager) BalanceOf(ctx context.Context) (*big.Int, error) {
	session, err := m.current()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()

	return session.Token.BalanceOf(&bind.CallOpts{Context: timeoutCtx}, session.Auth.From)
}

// Allowance reads the allowance granted by the signing address to the wrapper contract.
func (m *Manager) Allowance(ctx context.Context) (*big.Int, error) {
	session, err := m.current()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, rpcCallTimeout)
	defer cancel()

	return session.Token.Allowance(&bind.CallOpts{Context: timeoutCtx}, session.Auth.From, m.wrapperAddress)
}

// Mint submits a mint of the given amount to the signing address and waits for it to be mined.
func (m *Manager) Mint(ctx context.Context, gasPrice, amount *big.Int) error {
	return m.submit(ctx, gasPrice, "mint", func(s *Session, opts *bind.TransactOpts) (*types.Transaction, error) {
		return s.Token.Mint(opts, s.Auth.From, amount)
	})
}

// Approve submits an approval of the given amount for the wrapper contract and waits for it to be mined.
func (m *Manager) Approve(ctx context.Context, gasPrice, amount *big.Int) error {
	return m.submit(ctx, gasPrice, "approve", func(s *Session, opts *bind.TransactOpts) (*types.Transaction, error) {
		return s.Token.Approve(opts, m.wrapperAddress, amount)
	})
}

// Wrap submits a wrap of the given identifier and waits for it to be mined.
func (m *Manager) Wrap(ctx context.Context, gasPrice, id *big.Int) error {
	return m.submit(ctx, gasPrice, "wrap", func(s *Session, opts *bind.TransactOpts) (*types.Transaction, error) {
		return s.Wrapper.Wrap(opts, id)
	})
}

// Unwrap submits an unwrap of the given identifier and waits for it to be mined.
func (m *Manager) Unwrap(ctx context.Context, gasPrice, id *big.Int) error {
	return m.submit(ctx, gasPrice, "unwrap", func(s *Session, opts *bind.TransactOpts) (*types.Transaction, error) {
		return s.Wrapper.Unwrap(opts, id)
	})
}

// submit sends one transaction through the live session and waits for its
// receipt. A mined-but-reverted receipt is reported as an error so the caller
// treats it like any other contract failure.
func (m *Manager) submit(ctx context.Context, gasPrice *big.Int, label string, send func(*Session, *bind.TransactOpts) (*types.Transaction, error)) error {
	session, err := m.current()
	if err != nil {
		return err
	}

	txOpts := *session.Auth
	txOpts.Context = ctx
	// nil gas price lets the client estimate on its own
	txOpts.GasPrice = gasPrice

	tx, err := send(session, &txOpts)
	if err != nil {
		return fmt.Errorf("failed to send %s transaction: %v", label, err)
	}
	m.log.Info("Sent %s transaction: %s", label, tx.Hash().Hex())

	// No timeout here: once submitted, confirmation is awaited unconditionally.
	receipt, err := bind.WaitMined(ctx, session.Client, tx)
	if err != nil {
		return fmt.Errorf("failed to wait for %s transaction: %v", label, err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return fmt.Errorf("%s transaction reverted: %s", label, tx.Hash().Hex())
	}

	m.log.Info("Mined %s transaction in block %d (gas used: %d)", label, receipt.BlockNumber.Uint64(), receipt.GasUsed)
	return nil
}
