// Package app builds the client's dependency graph from a Config: the
// wallet provider, the count store, the gif resolver, the node connection
// and the transfer service that ties them together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"krypt-tui/config"
	"krypt-tui/contract"
	"krypt-tui/gif"
	"krypt-tui/rpc"
	"krypt-tui/store"
	"krypt-tui/transfer"
	transporthttp "krypt-tui/transport/http"
	"krypt-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNoContractAddress is returned by BindNode when no contract address is
// configured.
var ErrNoContractAddress = errors.New("no contract address configured (set CONTRACT_ADDRESS)")

// App holds the long-lived collaborators of one client session.
type App struct {
	Config  config.Config
	Logger  *log.Logger
	Service *transfer.Service
	Gif     *gif.Resolver
	Store   store.CountStore

	wallet wallet.Provider
	node   *rpc.Client
}

// New builds an App. A missing wallet endpoint is not an error: the service
// reports transfer.ErrNoWallet from wallet-dependent operations instead.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	p, err := wallet.New(cfg.WalletURL, transporthttp.WithLogger(logger))
	switch {
	case errors.Is(err, wallet.ErrNoProvider):
		logger.Warn("no wallet provider configured")
	case err != nil:
		return nil, err
	default:
		a.wallet = p
	}

	a.Store, err = newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.Gif = gif.New(cfg.GiphyAPIKey, gif.WithLogger(logger))

	opts := []transfer.Option{transfer.WithStore(a.Store), transfer.WithLogger(logger)}
	if a.wallet != nil {
		opts = append(opts, transfer.WithWallet(a.wallet))
	}
	a.Service = transfer.New(opts...)

	return a, nil
}

func newStore(ctx context.Context, cfg config.Config) (store.CountStore, error) {
	if cfg.Redis.Addr != "" {
		rs, err := store.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}
	return store.NewFileStore(cfg.StateFile(store.DefaultStatePath())), nil
}

// NewLogger returns a charm logger writing to w at the configured level.
func NewLogger(w io.Writer, cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "krypt",
	})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// HasWallet reports whether a wallet provider is configured.
func (a *App) HasWallet() bool {
	return a.wallet != nil
}

// Node returns the bound node client, if any.
func (a *App) Node() *rpc.Client {
	return a.node
}

// BindNode binds the Transactions contract through client and hands it to
// the service. The wallet provider, when present, signs writes.
func (a *App) BindNode(client *rpc.Client) error {
	a.node = client
	if a.Config.ContractAddress == "" {
		return ErrNoContractAddress
	}
	if !common.IsHexAddress(a.Config.ContractAddress) {
		return fmt.Errorf("invalid contract address %q", a.Config.ContractAddress)
	}

	var sender contract.Sender
	if a.wallet != nil {
		sender = a.wallet
	}

	binding, err := contract.New(common.HexToAddress(a.Config.ContractAddress), client.Client, sender)
	if err != nil {
		return err
	}
	a.Service.UseContract(binding)
	return nil
}

// Connect dials the active node and binds the contract.
func (a *App) Connect() error {
	url := a.Config.ActiveRPC()
	if url == "" {
		return errors.New("no RPC endpoint configured (set ETH_RPC_URL)")
	}

	res := rpc.Connect(url)
	if res.Error != nil {
		return fmt.Errorf("connect %s: %w", url, res.Error)
	}
	return a.BindNode(res.Client)
}

// Close releases the node connection and the store.
func (a *App) Close() error {
	if a.node != nil && a.node.Client != nil {
		a.node.Close()
	}
	if c, ok := a.Store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
