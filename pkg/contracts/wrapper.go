package contracts

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// WrapperABI is the ABI of the wrapper contract
const WrapperABI = `[
	{
		"inputs": [
			{
				"internalType": "uint256",
				"name": "id",
				"type": "uint256"
			}
		],
		"name": "wrap",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{
				"internalType": "uint256",
				"name": "id",
				"type": "uint256"
			}
		],
		"name": "unwrap",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// Wrapper is an auto generated Go binding around an Ethereum contract.
type Wrapper struct {
	WrapperTransactor // Write-only binding to the contract
}

// WrapperTransactor is an auto generated write-only Go binding around an Ethereum contract.
type WrapperTransactor struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// WrapperSession is an auto generated Go binding around an Ethereum contract,
// with pre-set call and transact options.
type WrapperSession struct {
	Contract     *Wrapper          // Generic contract binding to set the session for
	TransactOpts bind.TransactOpts // Transaction auth options to use throughout this session
}

// NewWrapper creates a new instance of Wrapper, bound to a specific deployed contract.
func NewWrapper(address common.Address, backend bind.ContractBackend) (*Wrapper, error) {
	contract, err := bindWrapper(address, backend, backend)
	if err != nil {
		return nil, err
	}
	return &Wrapper{WrapperTransactor: WrapperTransactor{contract: contract}}, nil
}

// NewWrapperTransactor creates a new write-only instance of Wrapper, bound to a specific deployed contract.
func NewWrapperTransactor(address common.Address, transactor bind.ContractTransactor) (*WrapperTransactor, error) {
	contract, err := bindWrapper(address, nil, transactor)
	if err != nil {
		return nil, err
	}
	return &WrapperTransactor{contract: contract}, nil
}

// bindWrapper binds a generic wrapper to an already deployed contract.
func bindWrapper(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor) (*bind.BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(WrapperABI))
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, parsed, caller, transactor, nil), nil
}

// Wrap is a paid mutator transaction binding the contract method 0xea598cb0.
//
// Solidity: function wrap(uint256 id) returns()
func (_Wrapper *WrapperTransactor) Wrap(opts *bind.TransactOpts, id *big.Int) (*types.Transaction, error) {
	return _Wrapper.contract.Transact(opts, "wrap", id)
}

// Wrap is a paid mutator transaction binding the contract method 0xea598cb0.
//
// Solidity: function wrap(uint256 id) returns()
func (_Wrapper *WrapperSession) Wrap(id *big.Int) (*types.Transaction, error) {
	return _Wrapper.Contract.Wrap(&_Wrapper.TransactOpts, id)
}

// Unwrap is a paid mutator transaction binding the contract method 0xde0e9a3e.
//
// Solidity: function unwrap(uint256 id) returns()
func (_Wrapper *WrapperTransactor) Unwrap(opts *bind.TransactOpts, id *big.Int) (*types.Transaction, error) {
	return _Wrapper.contract.Transact(opts, "unwrap", id)
}

// Unwrap is a paid mutator transaction binding the contract method 0xde0e9a3e.
//
// Solidity: function unwrap(uint256 id) returns()
func (_Wrapper *WrapperSession) Unwrap(id *big.Int) (*types.Transaction, error) {
	return _Wrapper.Contract.Unwrap(&_Wrapper.TransactOpts, id)
}
