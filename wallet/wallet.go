// Package wallet talks to a wallet provider: the agent that holds the user's
// keys and signs on their behalf. The provider is reached over JSON-RPC and
// only the account and signing methods are used.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	transporthttp "krypt-tui/transport/http"
	"krypt-tui/transport/jsonrpc"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TransferGas is the gas limit sent with plain value transfers (0x5208).
const TransferGas uint64 = 21000

// ErrNoProvider is returned by New when no provider endpoint is configured.
var ErrNoProvider = errors.New("no wallet provider configured")

// Provider is the wallet surface the client depends on.
type Provider interface {
	// Accounts returns the accounts already authorised for this client
	// (eth_accounts). It never prompts the user.
	Accounts(ctx context.Context) ([]common.Address, error)

	// RequestAccounts asks the user to authorise accounts
	// (eth_requestAccounts) and returns them.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// SendTransaction asks the provider to sign and submit args
	// (eth_sendTransaction) and returns the transaction hash.
	SendTransaction(ctx context.Context, args TxArgs) (common.Hash, error)
}

// TxArgs is the eth_sendTransaction parameter object.
type TxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
}

// TransferArgs builds the arguments of a native value transfer with the
// fixed TransferGas limit.
func TransferArgs(from, to common.Address, value *big.Int) TxArgs {
	gas := hexutil.Uint64(TransferGas)
	return TxArgs{
		From:  from,
		To:    &to,
		Gas:   &gas,
		Value: (*hexutil.Big)(value),
	}
}

// RPCProvider is a Provider backed by a JSON-RPC endpoint.
type RPCProvider struct {
	rpc *jsonrpc.Client
}

var _ Provider = (*RPCProvider)(nil)

// New returns a provider for endpoint, or ErrNoProvider if endpoint is empty.
// Requests are not retried: a provider may be waiting on the user and a
// repeated eth_sendTransaction could submit twice.
func New(endpoint string, opts ...transporthttp.Option) (*RPCProvider, error) {
	if endpoint == "" {
		return nil, ErrNoProvider
	}

	opts = append([]transporthttp.Option{
		transporthttp.WithTimeout(2 * time.Minute),
		transporthttp.WithRetryMax(0),
	}, opts...)

	return &RPCProvider{rpc: jsonrpc.NewClient(endpoint, opts...)}, nil
}

// Endpoint returns the provider URL.
func (p *RPCProvider) Endpoint() string {
	return p.rpc.Endpoint()
}

func (p *RPCProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.rpc.Call(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}
	return accounts, nil
}

// RequestAccounts falls back to eth_accounts when the provider does not
// implement eth_requestAccounts, which is the case for dev nodes that expose
// unlocked accounts directly.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	err := p.rpc.Call(ctx, &accounts, "eth_requestAccounts")
	if jsonrpc.IsCode(err, jsonrpc.CodeMethodNotFound) {
		return p.Accounts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("eth_requestAccounts: %w", err)
	}
	return accounts, nil
}

func (p *RPCProvider) SendTransaction(ctx context.Context, args TxArgs) (common.Hash, error) {
	var hash common.Hash
	if err := p.rpc.Call(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}
	return hash, nil
}
