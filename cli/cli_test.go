package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"krypt-tui/app"
	"krypt-tui/config"
	"krypt-tui/contract"
	"krypt-tui/gif"
	"krypt-tui/store"
	"krypt-tui/transfer"
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
	accounts []common.Address
}

func (w *fakeWallet) Accounts(context.Context) ([]common.Address, error) {
	return w.accounts, nil
}

func (w *fakeWallet) RequestAccounts(context.Context) ([]common.Address, error) {
	return w.accounts, nil
}

func (w *fakeWallet) SendTransaction(context.Context, wallet.TxArgs) (common.Hash, error) {
	return common.HexToHash("0x01"), nil
}

type fakeContract struct {
	records []contract.TransferStruct
	count   int64
}

func (c *fakeContract) GetAllTransactions(context.Context) ([]contract.TransferStruct, error) {
	return c.records, nil
}

func (c *fakeContract) GetTransactionCount(context.Context) (*big.Int, error) {
	return big.NewInt(c.count), nil
}

func (c *fakeContract) AddToBlockchain(context.Context, common.Address, common.Address, *big.Int, string, string) (common.Hash, error) {
	c.count++
	return common.HexToHash("0x02"), nil
}

func (c *fakeContract) WaitMined(context.Context, common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}, nil
}

func (c *fakeContract) ParseTransfer(*types.Receipt) ([]contract.TransferEvent, error) {
	return nil, nil
}

// run executes args against an app assembled from the given service
// options and returns stdout.
func run(t *testing.T, resolver *gif.Resolver, args []string, svcOpts ...transfer.Option) (string, error) {
	t.Helper()

	var out bytes.Buffer
	logger := log.New(io.Discard)
	opts := Options{
		Stdout: &out,
		Stderr: io.Discard,
		Open: func(context.Context, config.Config, *log.Logger) (*app.App, error) {
			svcOpts = append(svcOpts, transfer.WithLogger(logger))
			return &app.App{
				Logger:  logger,
				Service: transfer.New(svcOpts...),
				Gif:     resolver,
			}, nil
		},
		Bind: func(*app.App) error { return nil },
	}

	cfgPath := filepath.Join(t.TempDir(), "config.json")
	argv := append([]string{"krypt", "--config", cfgPath}, args...)
	err := Run(t.Context(), argv, opts)
	return out.String(), err
}

func TestGifCommand(t *testing.T) {
	t.Run("should print the first result url", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "happycat", r.URL.Query().Get("q"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[{"images":{"downsized_medium":{"url":"https://media.giphy.com/cat.gif"}}}]}`))
		}))
		defer srv.Close()

		resolver := gif.New("key", gif.WithBaseURL(srv.URL))

		// Act
		out, err := run(t, resolver, []string{"gif", "happy cat"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "https://media.giphy.com/cat.gif\n", out)
	})

	t.Run("should print the placeholder when the search fails", func(t *testing.T) {
		// Arrange
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		resolver := gif.New("key", gif.WithBaseURL(srv.URL))

		// Act
		out, err := run(t, resolver, []string{"gif", "cat"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, gif.Placeholder+"\n", out)
		assert.Positive(t, hits.Load())
	})

	t.Run("should require a keyword", func(t *testing.T) {
		// Act
		_, err := run(t, gif.New("key"), []string{"gif"})

		// Assert
		assert.Error(t, err)
	})
}

func TestCountCommand(t *testing.T) {
	t.Run("should print and persist the count", func(t *testing.T) {
		// Arrange
		fs := store.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
		c := &fakeContract{count: 7}

		// Act
		out, err := run(t, nil, []string{"count"}, transfer.WithContract(c), transfer.WithStore(fs))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "7\n", out)

		n, ok, err := fs.LoadCount(t.Context())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, uint64(7), n)
	})

	t.Run("should fail without a contract", func(t *testing.T) {
		// Act
		_, err := run(t, nil, []string{"count"})

		// Assert
		assert.ErrorIs(t, err, transfer.ErrNoContract)
	})
}

func TestWalletCommands(t *testing.T) {
	t.Run("should report a missing wallet on connect", func(t *testing.T) {
		// Act
		_, err := run(t, nil, []string{"connect"})

		// Assert
		assert.ErrorIs(t, err, transfer.ErrNoWallet)
	})

	t.Run("should print the granted account", func(t *testing.T) {
		// Arrange
		w := &fakeWallet{accounts: []common.Address{alice, bob}}

		// Act
		out, err := run(t, nil, []string{"connect"}, transfer.WithWallet(w))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, alice.Hex()+"\n", out)
	})

	t.Run("should say when no account is authorized", func(t *testing.T) {
		// Arrange
		w := &fakeWallet{}

		// Act
		out, err := run(t, nil, []string{"accounts"}, transfer.WithWallet(w))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "No authorized accounts found\n", out)
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("should list recorded transfers", func(t *testing.T) {
		// Arrange
		w := &fakeWallet{accounts: []common.Address{alice}}
		c := &fakeContract{records: []contract.TransferStruct{{
			Sender:    alice,
			Receiver:  bob,
			Amount:    big.NewInt(1_500_000_000_000_000_000),
			Message:   "lunch",
			Timestamp: big.NewInt(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Unix()),
			Keyword:   "pizza",
		}}}

		// Act
		out, err := run(t, nil, []string{"history"}, transfer.WithWallet(w), transfer.WithContract(c))

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "TIME")
		assert.Contains(t, out, bob.Hex())
		assert.Contains(t, out, "1.5")
		assert.Contains(t, out, "pizza")
		assert.Contains(t, out, "lunch")
	})

	t.Run("should say when the history is empty", func(t *testing.T) {
		// Arrange
		w := &fakeWallet{accounts: []common.Address{alice}}

		// Act
		out, err := run(t, nil, []string{"history"}, transfer.WithWallet(w), transfer.WithContract(&fakeContract{}))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "No transactions yet\n", out)
	})
}

func TestSendCommand(t *testing.T) {
	t.Run("should send and print the hashes", func(t *testing.T) {
		// Arrange
		w := &fakeWallet{accounts: []common.Address{alice}}
		c := &fakeContract{count: 1}

		// Act
		out, err := run(t, nil, []string{"send", "--to", bob.Hex(), "--amount", "0.5", "--keyword", "cat"},
			transfer.WithWallet(w), transfer.WithContract(c))

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, common.HexToHash("0x01").Hex())
		assert.Contains(t, out, common.HexToHash("0x02").Hex())
		assert.Contains(t, out, "count     2")
	})

	t.Run("should reject an invalid amount", func(t *testing.T) {
		// Arrange
		w := &fakeWallet{accounts: []common.Address{alice}}

		// Act
		_, err := run(t, nil, []string{"send", "--to", bob.Hex(), "--amount", "abc"},
			transfer.WithWallet(w), transfer.WithContract(&fakeContract{}))

		// Assert
		assert.Error(t, err)
	})
}

func TestRootAction(t *testing.T) {
	t.Run("should start the interface with the resolved config", func(t *testing.T) {
		// Arrange
		cfgPath := filepath.Join(t.TempDir(), "config.json")
		var gotPath string
		opts := Options{
			Stdout: io.Discard,
			Stderr: io.Discard,
			UI: func(_ context.Context, cfg config.Config, path string) error {
				gotPath = path
				return nil
			},
		}

		// Act
		err := Run(t.Context(), []string{"krypt", "--config", cfgPath}, opts)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cfgPath, gotPath)
		assert.FileExists(t, cfgPath)
	})

	t.Run("should return the interface error", func(t *testing.T) {
		// Arrange
		boom := errors.New("boom")
		opts := Options{
			Stdout: io.Discard,
			Stderr: io.Discard,
			UI:     func(context.Context, config.Config, string) error { return boom },
		}

		// Act
		err := Run(t.Context(), []string{"krypt", "--config", filepath.Join(t.TempDir(), "c.json")}, opts)

		// Assert
		assert.ErrorIs(t, err, boom)
	})
}
