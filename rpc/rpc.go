package rpc

import (
	"context"
	"math/big"
	"time"

	"krypt-tui/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL     string
	ChainID *big.Int
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout dials url and asks for the chain id, so an unreachable
// HTTP endpoint fails here rather than on the first read.
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client:  client,
			URL:     url,
			ChainID: chainID,
		},
		Error: nil,
	}
}

// LoadWalletDetails fetches the ETH balance of addr
func LoadWalletDetails(client *Client, addr common.Address) config.WalletDetails {
	return LoadWalletDetailsWithTimeout(client, addr, 12*time.Second)
}

// LoadWalletDetailsWithTimeout fetches wallet details with a custom timeout
func LoadWalletDetailsWithTimeout(client *Client, addr common.Address, timeout time.Duration) config.WalletDetails {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	d := config.WalletDetails{
		Address:  addr.Hex(),
		EthWei:   big.NewInt(0),
		LoadedAt: time.Now(),
	}

	if client == nil || client.Client == nil {
		d.ErrMessage = "No RPC client (set ETH_RPC_URL)."
		return d
	}

	wei, err := client.BalanceAt(ctx, addr, nil)
	if err != nil {
		d.ErrMessage = "Failed to load ETH balance."
		return d
	}
	d.EthWei = wei

	return d
}
