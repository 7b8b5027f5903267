// Package contract binds the Transactions contract: a ledger-side list of
// annotated transfers with append and read methods. Reads go through a node
// (eth_call); writes are signed and submitted by the wallet provider.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"krypt-tui/retry"
	"krypt-tui/wallet"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrNoCode is returned when a call comes back empty, which is what a
	// node answers for an address without contract code.
	ErrNoCode = errors.New("no contract code at address")

	// ErrNoSender is returned by writes when no wallet provider is attached.
	ErrNoSender = errors.New("no wallet provider to sign with")

	// ErrTxReverted is returned by WaitMined for receipts with failed status.
	ErrTxReverted = errors.New("transaction reverted")
)

// Caller is the node surface used for reads and receipt polling.
// *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Sender submits transactions on behalf of the user.
type Sender interface {
	SendTransaction(ctx context.Context, args wallet.TxArgs) (common.Hash, error)
}

// TransferStruct mirrors the contract's record type.
type TransferStruct struct {
	Sender    common.Address
	Receiver  common.Address
	Amount    *big.Int
	Message   string
	Timestamp *big.Int
	Keyword   string
}

// TransferEvent is the decoded Transfer log emitted by addToBlockchain.
type TransferEvent struct {
	From      common.Address
	Receiver  common.Address
	Amount    *big.Int
	Message   string
	Timestamp *big.Int
	Keyword   string
}

type options struct {
	pollInterval    time.Duration
	maxPollInterval time.Duration
}

// Option configures a Transactions binding.
type Option func(*options)

// WithPollInterval sets the initial and maximum delay between receipt polls.
func WithPollInterval(initial, max time.Duration) Option {
	return func(o *options) {
		o.pollInterval = initial
		o.maxPollInterval = max
	}
}

// Transactions is a binding to one deployed Transactions contract.
type Transactions struct {
	address common.Address
	abi     abi.ABI
	caller  Caller
	sender  Sender
	poll    retry.Retry
}

// New binds the contract at address. sender may be nil, in which case only
// reads are available.
func New(address common.Address, caller Caller, sender Sender, opts ...Option) (*Transactions, error) {
	o := options{
		pollInterval:    time.Second,
		maxPollInterval: 4 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	parsed, err := abi.JSON(strings.NewReader(transactionsABI))
	if err != nil {
		return nil, fmt.Errorf("parse transactions abi: %w", err)
	}

	return &Transactions{
		address: address,
		abi:     parsed,
		caller:  caller,
		sender:  sender,
		poll: retry.New(
			retry.WithAttempts(0),
			retry.WithDelay(o.pollInterval),
			retry.WithMaxDelay(o.maxPollInterval),
		),
	}, nil
}

// Address returns the bound contract address.
func (c *Transactions) Address() common.Address {
	return c.address
}

func (c *Transactions) call(ctx context.Context, method string) ([]any, error) {
	data, err := c.abi.Pack(method)
	if err != nil {
		return nil, err
	}

	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoCode
	}

	return c.abi.Unpack(method, out)
}

// GetAllTransactions returns the full transfer history.
func (c *Transactions) GetAllTransactions(ctx context.Context) ([]TransferStruct, error) {
	out, err := c.call(ctx, "getAllTransactions")
	if err != nil {
		return nil, fmt.Errorf("getAllTransactions: %w", err)
	}

	records := *abi.ConvertType(out[0], new([]TransferStruct)).(*[]TransferStruct)
	return records, nil
}

// GetTransactionCount returns the number of recorded transfers.
func (c *Transactions) GetTransactionCount(ctx context.Context) (*big.Int, error) {
	out, err := c.call(ctx, "getTransactionCount")
	if err != nil {
		return nil, fmt.Errorf("getTransactionCount: %w", err)
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// AddToBlockchain submits addToBlockchain(receiver, amount, message, keyword)
// from the given account through the wallet provider and returns the hash.
func (c *Transactions) AddToBlockchain(ctx context.Context, from, receiver common.Address, amount *big.Int, message, keyword string) (common.Hash, error) {
	if c.sender == nil {
		return common.Hash{}, ErrNoSender
	}

	data, err := c.abi.Pack("addToBlockchain", receiver, amount, message, keyword)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack addToBlockchain: %w", err)
	}

	to := c.address
	hash, err := c.sender.SendTransaction(ctx, wallet.TxArgs{From: from, To: &to, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("addToBlockchain: %w", err)
	}
	return hash, nil
}

// WaitMined polls for the receipt of hash until it is available or ctx is
// done. There is no built-in deadline.
func (c *Transactions) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := c.poll.Execute(ctx, func() error {
		r, err := c.caller.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return err
		}
		if err != nil {
			return retry.Unrecoverable(err)
		}
		receipt = r
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("wait for %s: %w", hash.Hex(), ctxErr)
		}
		return nil, fmt.Errorf("wait for %s: %w", hash.Hex(), err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%s: %w", hash.Hex(), ErrTxReverted)
	}
	return receipt, nil
}

// ParseTransfer decodes the Transfer events emitted by this contract in
// receipt. Logs from other contracts or events are skipped.
func (c *Transactions) ParseTransfer(receipt *types.Receipt) ([]TransferEvent, error) {
	event := c.abi.Events["Transfer"]

	var events []TransferEvent
	for _, l := range receipt.Logs {
		if l.Address != c.address || len(l.Topics) == 0 || l.Topics[0] != event.ID {
			continue
		}

		var ev TransferEvent
		if err := c.abi.UnpackIntoInterface(&ev, "Transfer", l.Data); err != nil {
			return nil, fmt.Errorf("unpack Transfer: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}
