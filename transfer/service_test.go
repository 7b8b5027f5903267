package transfer

import (
	"bytes"
	"context"
	"math/big"
	"path/filepath"
	"sync"
	"testing"

	"krypt-tui/contract"
	"krypt-tui/store"
	"krypt-tui/validator"
	"krypt-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb2")
	bob   = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
)

type fakeWallet struct {
	mu       sync.Mutex
	accounts []common.Address
	err      error
	sendErr  error
	calls    []string
	sent     []wallet.TxArgs
	nextHash common.Hash
}

func (w *fakeWallet) Accounts(context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "eth_accounts")
	return w.accounts, w.err
}

func (w *fakeWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "eth_requestAccounts")
	return w.accounts, w.err
}

func (w *fakeWallet) SendTransaction(_ context.Context, args wallet.TxArgs) (common.Hash, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "eth_sendTransaction")
	w.sent = append(w.sent, args)
	return w.nextHash, w.sendErr
}

type fakeContract struct {
	records []contract.TransferStruct
	count   int64
	readErr error
	addErr  error
	waitErr error
	added   []any
	// waitHook runs while WaitMined blocks.
	waitHook func()
}

func (c *fakeContract) GetAllTransactions(context.Context) ([]contract.TransferStruct, error) {
	return c.records, c.readErr
}

func (c *fakeContract) GetTransactionCount(context.Context) (*big.Int, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	return big.NewInt(c.count), nil
}

func (c *fakeContract) AddToBlockchain(_ context.Context, from, receiver common.Address, amount *big.Int, message, keyword string) (common.Hash, error) {
	c.added = []any{from, receiver, amount, message, keyword}
	return common.HexToHash("0xbeef"), c.addErr
}

func (c *fakeContract) WaitMined(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if c.waitHook != nil {
		c.waitHook()
	}
	if c.waitErr != nil {
		return nil, c.waitErr
	}
	c.count++
	return &types.Receipt{TxHash: hash, Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(9)}, nil
}

func (c *fakeContract) ParseTransfer(*types.Receipt) ([]contract.TransferEvent, error) {
	return []contract.TransferEvent{{Keyword: "cats"}}, nil
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func validForm() FormData {
	return FormData{AddressTo: bob.Hex(), Amount: "1.5", Keyword: "cats", Message: "hi"}
}

func TestService_NoWallet(t *testing.T) {
	c := &fakeContract{}
	s := New(WithContract(c), WithLogger(quietLogger()))
	s.SetForm(validForm())

	t.Run("ConnectWallet", func(t *testing.T) {
		assert.ErrorIs(t, s.ConnectWallet(t.Context()), ErrNoWallet)
	})

	t.Run("CheckIfWalletIsConnected", func(t *testing.T) {
		ok, err := s.CheckIfWalletIsConnected(t.Context())
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrNoWallet)
	})

	t.Run("GetAllTransactions", func(t *testing.T) {
		assert.ErrorIs(t, s.GetAllTransactions(t.Context()), ErrNoWallet)
	})

	t.Run("SendTransaction", func(t *testing.T) {
		_, err := s.SendTransaction(t.Context())
		assert.ErrorIs(t, err, ErrNoWallet)
		assert.Nil(t, c.added)
	})

	assert.False(t, s.HasWallet())
	assert.False(t, s.Snapshot().Connected())
}

func TestService_ConnectWallet(t *testing.T) {
	t.Run("should store the first account", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{alice, bob}}
		s := New(WithWallet(w), WithLogger(quietLogger()))

		require.NoError(t, s.ConnectWallet(t.Context()))

		assert.Equal(t, alice, s.Snapshot().Account)
		assert.Equal(t, []string{"eth_requestAccounts"}, w.calls)
	})

	t.Run("should fail on an empty account list", func(t *testing.T) {
		s := New(WithWallet(&fakeWallet{}), WithLogger(quietLogger()))

		err := s.ConnectWallet(t.Context())

		assert.ErrorIs(t, err, ErrNoAccounts)
		assert.False(t, s.Snapshot().Connected())
	})

	t.Run("should keep the cause of provider failures", func(t *testing.T) {
		s := New(WithWallet(&fakeWallet{err: assert.AnError}), WithLogger(quietLogger()))

		err := s.ConnectWallet(t.Context())

		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "connectWallet", opErr.Op)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestService_CheckIfWalletIsConnected(t *testing.T) {
	t.Run("should restore the account and load history", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{bob}}
		c := &fakeContract{records: []contract.TransferStruct{
			{Sender: alice, Receiver: bob, Amount: big.NewInt(2_000_000_000_000_000_000), Timestamp: big.NewInt(1700000000), Message: "m", Keyword: "k"},
		}}
		s := New(WithWallet(w), WithContract(c), WithLogger(quietLogger()))

		ok, err := s.CheckIfWalletIsConnected(t.Context())

		require.NoError(t, err)
		assert.True(t, ok)
		st := s.Snapshot()
		assert.Equal(t, bob, st.Account)
		assert.Len(t, st.Transactions, 1)
		assert.Equal(t, []string{"eth_accounts"}, w.calls)
	})

	t.Run("should leave state unchanged without accounts", func(t *testing.T) {
		s := New(WithWallet(&fakeWallet{}), WithContract(&fakeContract{}), WithLogger(quietLogger()))

		ok, err := s.CheckIfWalletIsConnected(t.Context())

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, s.Snapshot().Transactions)
	})
}

func TestService_GetAllTransactions(t *testing.T) {
	t.Run("should map every record", func(t *testing.T) {
		c := &fakeContract{records: []contract.TransferStruct{
			{Sender: alice, Receiver: bob, Amount: big.NewInt(1_500_000_000_000_000_000), Timestamp: big.NewInt(1700000000), Message: "lunch", Keyword: "pizza"},
			{Sender: bob, Receiver: alice, Amount: big.NewInt(1), Timestamp: big.NewInt(1700000060)},
			{Sender: bob, Receiver: bob, Amount: big.NewInt(0), Timestamp: big.NewInt(0)},
		}}
		s := New(WithWallet(&fakeWallet{}), WithContract(c), WithLogger(quietLogger()))

		require.NoError(t, s.GetAllTransactions(t.Context()))

		txs := s.Snapshot().Transactions
		require.Len(t, txs, 3)
		assert.Equal(t, bob, txs[0].AddressTo)
		assert.Equal(t, alice, txs[0].AddressFrom)
		assert.Equal(t, 1.5, txs[0].Amount)
		assert.Equal(t, int64(1700000000), txs[0].Timestamp.Unix())
		assert.Equal(t, "lunch", txs[0].Message)
		assert.Equal(t, "pizza", txs[0].Keyword)
		assert.Equal(t, 1e-18, txs[1].Amount)
		assert.Zero(t, txs[2].Amount)
	})

	t.Run("should replace the previous list", func(t *testing.T) {
		c := &fakeContract{records: []contract.TransferStruct{{Amount: big.NewInt(1), Timestamp: big.NewInt(1)}}}
		s := New(WithWallet(&fakeWallet{}), WithContract(c), WithLogger(quietLogger()))
		require.NoError(t, s.GetAllTransactions(t.Context()))

		c.records = nil
		require.NoError(t, s.GetAllTransactions(t.Context()))

		assert.Empty(t, s.Snapshot().Transactions)
	})

	t.Run("should fail without a contract", func(t *testing.T) {
		s := New(WithWallet(&fakeWallet{}), WithLogger(quietLogger()))

		assert.ErrorIs(t, s.GetAllTransactions(t.Context()), ErrNoContract)
	})

	t.Run("should keep state on failure", func(t *testing.T) {
		c := &fakeContract{records: []contract.TransferStruct{{Amount: big.NewInt(1), Timestamp: big.NewInt(1)}}}
		s := New(WithWallet(&fakeWallet{}), WithContract(c), WithLogger(quietLogger()))
		require.NoError(t, s.GetAllTransactions(t.Context()))

		c.readErr = assert.AnError
		err := s.GetAllTransactions(t.Context())

		assert.ErrorIs(t, err, assert.AnError)
		assert.Len(t, s.Snapshot().Transactions, 1)
	})
}

func TestService_CheckIfTransactionsExist(t *testing.T) {
	st := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	s := New(WithContract(&fakeContract{count: 4}), WithStore(st), WithLogger(quietLogger()))

	require.NoError(t, s.CheckIfTransactionsExist(t.Context()))

	assert.Equal(t, uint64(4), s.Snapshot().TransactionCount)
	count, ok, err := st.LoadCount(t.Context())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(4), count)
}

func TestService_SendTransaction(t *testing.T) {
	t.Run("should send 1.5 ether then record it and reload the count", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{alice}, nextHash: common.HexToHash("0x01")}
		c := &fakeContract{count: 2}
		s := New(WithWallet(w), WithContract(c), WithLogger(quietLogger()))
		require.NoError(t, s.ConnectWallet(t.Context()))
		s.SetForm(validForm())

		var sawLoading bool
		c.waitHook = func() { sawLoading = s.Snapshot().Loading }

		res, err := s.SendTransaction(t.Context())

		require.NoError(t, err)
		require.Len(t, w.sent, 1)
		sent := w.sent[0]
		assert.Equal(t, alice, sent.From)
		assert.Equal(t, bob, *sent.To)
		assert.Equal(t, "1500000000000000000", sent.Value.ToInt().String())
		assert.Equal(t, uint64(wallet.TransferGas), uint64(*sent.Gas))

		assert.Equal(t, []any{alice, bob, big.NewInt(1_500_000_000_000_000_000), "hi", "cats"}, c.added)
		assert.True(t, sawLoading)

		st := s.Snapshot()
		assert.False(t, st.Loading)
		assert.Equal(t, uint64(3), st.TransactionCount)
		assert.Equal(t, validForm(), st.Form)

		assert.Equal(t, common.HexToHash("0x01"), res.TransferHash)
		assert.Equal(t, common.HexToHash("0xbeef"), res.RecordHash)
		assert.Equal(t, uint64(3), res.Count)
		assert.Len(t, res.Recorded, 1)
	})

	t.Run("should clear loading when the wait fails", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{alice}}
		c := &fakeContract{waitErr: contract.ErrTxReverted}
		s := New(WithWallet(w), WithContract(c), WithLogger(quietLogger()))
		require.NoError(t, s.ConnectWallet(t.Context()))
		s.SetForm(validForm())

		_, err := s.SendTransaction(t.Context())

		assert.ErrorIs(t, err, contract.ErrTxReverted)
		assert.False(t, s.Snapshot().Loading)
	})

	t.Run("should not record when the transfer is rejected", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{alice}, sendErr: assert.AnError}
		c := &fakeContract{}
		s := New(WithWallet(w), WithContract(c), WithLogger(quietLogger()))
		require.NoError(t, s.ConnectWallet(t.Context()))
		s.SetForm(validForm())

		_, err := s.SendTransaction(t.Context())

		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "sendTransaction", opErr.Op)
		assert.Nil(t, c.added)
	})

	t.Run("should require a connected account", func(t *testing.T) {
		s := New(WithWallet(&fakeWallet{}), WithContract(&fakeContract{}), WithLogger(quietLogger()))
		s.SetForm(validForm())

		_, err := s.SendTransaction(t.Context())

		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("should validate the form before any request", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{alice}}
		s := New(WithWallet(w), WithContract(&fakeContract{}), WithLogger(quietLogger()))
		require.NoError(t, s.ConnectWallet(t.Context()))
		s.SetForm(FormData{AddressTo: "nope", Amount: "-1"})

		_, err := s.SendTransaction(t.Context())

		assert.ErrorIs(t, err, validator.ErrValidationFailed)
		assert.Empty(t, w.sent)
	})

	t.Run("should not send a zero amount", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{alice}}
		s := New(WithWallet(w), WithContract(&fakeContract{}), WithLogger(quietLogger()))
		require.NoError(t, s.ConnectWallet(t.Context()))
		form := validForm()
		form.Amount = "0.0"
		s.SetForm(form)

		_, err := s.SendTransaction(t.Context())

		assert.ErrorIs(t, err, validator.ErrValidationFailed)
		assert.Empty(t, w.sent)
	})

	t.Run("should reject a second send while one is running", func(t *testing.T) {
		w := &fakeWallet{accounts: []common.Address{alice}}
		c := &fakeContract{}
		s := New(WithWallet(w), WithContract(c), WithLogger(quietLogger()))
		require.NoError(t, s.ConnectWallet(t.Context()))
		s.SetForm(validForm())

		var nestedErr error
		c.waitHook = func() { _, nestedErr = s.SendTransaction(t.Context()) }

		_, err := s.SendTransaction(t.Context())

		require.NoError(t, err)
		assert.ErrorIs(t, nestedErr, ErrSendInProgress)
	})
}

func TestService_Form(t *testing.T) {
	s := New(WithLogger(quietLogger()))

	require.NoError(t, s.SetField(FieldAddressTo, bob.Hex()))
	require.NoError(t, s.SetField(FieldAmount, "0.1"))
	require.NoError(t, s.SetField(FieldKeyword, "dog"))
	require.NoError(t, s.SetField(FieldMessage, "woof"))
	assert.Error(t, s.SetField("color", "red"))

	assert.Equal(t, FormData{AddressTo: bob.Hex(), Amount: "0.1", Keyword: "dog", Message: "woof"}, s.Snapshot().Form)
}

func TestService_OnChange(t *testing.T) {
	s := New(WithWallet(&fakeWallet{accounts: []common.Address{alice}}), WithLogger(quietLogger()))

	var got []State
	s.OnChange(func(st State) { got = append(got, st) })

	require.NoError(t, s.ConnectWallet(t.Context()))

	require.Len(t, got, 1)
	assert.Equal(t, alice, got[0].Account)
}

func TestService_Init(t *testing.T) {
	t.Run("should restore the persisted count and run both checks", func(t *testing.T) {
		st := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
		require.NoError(t, st.SaveCount(t.Context(), 1))
		w := &fakeWallet{accounts: []common.Address{alice}}
		s := New(WithWallet(w), WithContract(&fakeContract{count: 5}), WithStore(st), WithLogger(quietLogger()))

		require.NoError(t, s.Init(t.Context()))

		snap := s.Snapshot()
		assert.Equal(t, alice, snap.Account)
		assert.Equal(t, uint64(5), snap.TransactionCount)
		assert.True(t, snap.CountKnown)
	})

	t.Run("should run the count check even without a wallet", func(t *testing.T) {
		s := New(WithContract(&fakeContract{count: 8}), WithLogger(quietLogger()))

		err := s.Init(t.Context())

		assert.ErrorIs(t, err, ErrNoWallet)
		assert.Equal(t, uint64(8), s.Snapshot().TransactionCount)
	})

	t.Run("should join both failures", func(t *testing.T) {
		s := New(WithLogger(quietLogger()))

		err := s.Init(t.Context())

		assert.ErrorIs(t, err, ErrNoWallet)
		assert.ErrorIs(t, err, ErrNoContract)
	})
}
