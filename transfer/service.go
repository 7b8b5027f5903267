// Package transfer holds the client state for one wallet session and the
// operations that move it: connecting a wallet, sending an annotated
// transfer and reading the contract history.
package transfer

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"krypt-tui/contract"
	"krypt-tui/store"
	"krypt-tui/validator"
	"krypt-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Contract is the subset of the Transactions binding the service uses.
type Contract interface {
	GetAllTransactions(ctx context.Context) ([]contract.TransferStruct, error)
	GetTransactionCount(ctx context.Context) (*big.Int, error)
	AddToBlockchain(ctx context.Context, from, receiver common.Address, amount *big.Int, message, keyword string) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	ParseTransfer(receipt *types.Receipt) ([]contract.TransferEvent, error)
}

// SendResult describes a completed send.
type SendResult struct {
	TransferHash common.Hash
	RecordHash   common.Hash
	Recorded     []contract.TransferEvent
	Count        uint64
}

// Option configures a Service.
type Option func(*Service)

// WithWallet sets the wallet provider. A nil provider means none is
// installed.
func WithWallet(p wallet.Provider) Option {
	return func(s *Service) { s.wallet = p }
}

// WithContract sets the contract binding.
func WithContract(c Contract) Option {
	return func(s *Service) { s.contract = c }
}

// WithStore sets where the transaction count is persisted.
func WithStore(cs store.CountStore) Option {
	return func(s *Service) { s.store = cs }
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service owns the session state. It is safe for concurrent use.
type Service struct {
	wallet   wallet.Provider
	contract Contract
	store    store.CountStore
	logger   *log.Logger

	mu       sync.RWMutex
	state    State
	sending  bool
	onChange func(State)
}

// New returns a Service with empty state.
func New(opts ...Option) *Service {
	s := &Service{logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UseContract swaps the contract binding, e.g. after the node connection
// has been established.
func (s *Service) UseContract(c Contract) {
	s.mu.Lock()
	s.contract = c
	s.mu.Unlock()
}

// OnChange registers fn to be called with a snapshot after every state
// change. fn must not call back into the Service synchronously.
func (s *Service) OnChange(fn func(State)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// HasWallet reports whether a wallet provider is configured.
func (s *Service) HasWallet() bool {
	return s.wallet != nil
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// SetForm replaces the whole form.
func (s *Service) SetForm(f FormData) {
	s.update(func(st *State) { st.Form = f })
}

// SetField updates one form field by name.
func (s *Service) SetField(name, value string) error {
	var err error
	s.update(func(st *State) { err = st.Form.set(name, value) })
	return err
}

func (s *Service) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap, notify := s.state.clone(), s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}

func (s *Service) currentContract() (Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contract == nil {
		return nil, ErrNoContract
	}
	return s.contract, nil
}

func (s *Service) fail(op string, err error) error {
	s.logger.Error("operation failed", "op", op, "err", err)
	return &OpError{Op: op, Err: err}
}

// ConnectWallet asks the provider for account access and stores the first
// granted account.
func (s *Service) ConnectWallet(ctx context.Context) error {
	if s.wallet == nil {
		return ErrNoWallet
	}

	accounts, err := s.wallet.RequestAccounts(ctx)
	if err != nil {
		return s.fail("connectWallet", err)
	}
	if len(accounts) == 0 {
		return s.fail("connectWallet", ErrNoAccounts)
	}

	s.update(func(st *State) { st.Account = accounts[0] })
	s.logger.Info("wallet connected", "account", accounts[0].Hex())
	return nil
}

// CheckIfWalletIsConnected restores a previously granted account without
// prompting and, if one exists, refreshes the transaction list. It reports
// whether an account was found.
func (s *Service) CheckIfWalletIsConnected(ctx context.Context) (bool, error) {
	if s.wallet == nil {
		return false, ErrNoWallet
	}

	accounts, err := s.wallet.Accounts(ctx)
	if err != nil {
		return false, s.fail("checkIfWalletIsConnected", err)
	}
	if len(accounts) == 0 {
		s.logger.Info("no accounts found")
		return false, nil
	}

	s.update(func(st *State) { st.Account = accounts[0] })
	s.logger.Debug("restored account", "account", accounts[0].Hex())

	if err := s.GetAllTransactions(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// CheckIfTransactionsExist reads the transaction count from the contract
// and persists it.
func (s *Service) CheckIfTransactionsExist(ctx context.Context) error {
	c, err := s.currentContract()
	if err != nil {
		return err
	}

	count, err := s.refreshCount(ctx, c)
	if err != nil {
		return s.fail("checkIfTransactionsExist", err)
	}
	s.logger.Debug("transaction count", "count", count)
	return nil
}

func (s *Service) refreshCount(ctx context.Context, c Contract) (uint64, error) {
	n, err := c.GetTransactionCount(ctx)
	if err != nil {
		return 0, err
	}
	count := n.Uint64()

	s.update(func(st *State) {
		st.TransactionCount = count
		st.CountKnown = true
	})

	if s.store != nil {
		if err := s.store.SaveCount(ctx, count); err != nil {
			s.logger.Warn("could not persist transaction count", "err", err)
		}
	}
	return count, nil
}

// GetAllTransactions replaces the transaction list with the full contract
// history.
func (s *Service) GetAllTransactions(ctx context.Context) error {
	if s.wallet == nil {
		return ErrNoWallet
	}
	c, err := s.currentContract()
	if err != nil {
		return err
	}

	records, err := c.GetAllTransactions(ctx)
	if err != nil {
		return s.fail("getAllTransactions", err)
	}

	txs := make([]Transaction, 0, len(records))
	for _, r := range records {
		txs = append(txs, toTransaction(r))
	}

	s.update(func(st *State) { st.Transactions = txs })
	s.logger.Debug("loaded transactions", "count", len(txs))
	return nil
}

func toTransaction(r contract.TransferStruct) Transaction {
	var ts time.Time
	if r.Timestamp != nil {
		ts = time.Unix(r.Timestamp.Int64(), 0)
	}
	return Transaction{
		AddressTo:   r.Receiver,
		AddressFrom: r.Sender,
		Timestamp:   ts,
		Message:     r.Message,
		Keyword:     r.Keyword,
		AmountWei:   r.Amount,
		Amount:      WeiToEther(r.Amount),
	}
}

// SendTransaction sends the form amount to the form address as a native
// transfer, then records it on the contract and waits for the record to be
// mined. Loading is set for the duration of the wait. The form is left as
// is.
func (s *Service) SendTransaction(ctx context.Context) (*SendResult, error) {
	if s.wallet == nil {
		return nil, ErrNoWallet
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return nil, ErrSendInProgress
	}
	s.sending = true
	form, from := s.state.Form, s.state.Account
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	if from == (common.Address{}) {
		return nil, ErrNotConnected
	}
	if err := validator.Validate(form); err != nil {
		return nil, err
	}
	c, err := s.currentContract()
	if err != nil {
		return nil, err
	}

	value, err := ParseEther(form.Amount)
	if err != nil {
		return nil, err
	}
	to := common.HexToAddress(form.AddressTo)

	transferHash, err := s.wallet.SendTransaction(ctx, wallet.TransferArgs(from, to, value))
	if err != nil {
		return nil, s.fail("sendTransaction", err)
	}
	s.logger.Info("transfer sent", "hash", transferHash.Hex(), "to", to.Hex(), "wei", value.String())

	recordHash, err := c.AddToBlockchain(ctx, from, to, value, form.Message, form.Keyword)
	if err != nil {
		return nil, s.fail("sendTransaction", err)
	}

	result := &SendResult{TransferHash: transferHash, RecordHash: recordHash}

	s.update(func(st *State) { st.Loading = true })
	s.logger.Info("Loading", "hash", recordHash.Hex())
	receipt, err := c.WaitMined(ctx, recordHash)
	s.update(func(st *State) { st.Loading = false })
	if err != nil {
		return nil, s.fail("sendTransaction", err)
	}
	s.logger.Info("Success", "hash", recordHash.Hex(), "block", receipt.BlockNumber)

	if events, err := c.ParseTransfer(receipt); err != nil {
		s.logger.Warn("could not decode Transfer event", "err", err)
	} else {
		result.Recorded = events
	}

	count, err := s.refreshCount(ctx, c)
	if err != nil {
		return result, s.fail("sendTransaction", err)
	}
	result.Count = count
	return result, nil
}

// Init restores the persisted count, then runs the account check and the
// count check. Both checks always run; their errors are joined.
func (s *Service) Init(ctx context.Context) error {
	if s.store != nil {
		count, ok, err := s.store.LoadCount(ctx)
		switch {
		case err != nil:
			s.logger.Warn("could not load persisted transaction count", "err", err)
		case ok:
			s.update(func(st *State) {
				st.TransactionCount = count
				st.CountKnown = true
			})
		}
	}

	_, walletErr := s.CheckIfWalletIsConnected(ctx)
	countErr := s.CheckIfTransactionsExist(ctx)
	return errors.Join(walletErr, countErr)
}
