package wallet

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeProvider answers JSON-RPC calls from a method table and records them.
func fakeProvider(t *testing.T, handlers map[string]func(params []json.RawMessage) (any, map[string]any)) (*httptest.Server, *[]rpcRequest) {
	t.Helper()

	var calls []rpcRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls = append(calls, req)

		resp := map[string]any{"jsonrpc": "2.0", "id": "1"}
		h, ok := handlers[req.Method]
		if !ok {
			resp["error"] = map[string]any{"code": -32601, "message": "the method " + req.Method + " does not exist/is not available"}
		} else if result, rpcErr := h(req.Params); rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

var (
	alice = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb2")
	bob   = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
)

func TestNew(t *testing.T) {
	t.Run("returns ErrNoProvider without an endpoint", func(t *testing.T) {
		p, err := New("")

		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrNoProvider)
	})

	t.Run("keeps the endpoint", func(t *testing.T) {
		p, err := New("http://127.0.0.1:1248")

		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:1248", p.Endpoint())
	})
}

func TestRPCProvider_Accounts(t *testing.T) {
	srv, calls := fakeProvider(t, map[string]func([]json.RawMessage) (any, map[string]any){
		"eth_accounts": func([]json.RawMessage) (any, map[string]any) {
			return []string{"0x742d35cc6634c0532925a3b844bc9e7595f0beb2"}, nil
		},
	})
	p, err := New(srv.URL)
	require.NoError(t, err)

	accounts, err := p.Accounts(t.Context())

	require.NoError(t, err)
	assert.Equal(t, []common.Address{alice}, accounts)
	assert.Len(t, *calls, 1)
}

func TestRPCProvider_RequestAccounts(t *testing.T) {
	t.Run("uses eth_requestAccounts", func(t *testing.T) {
		srv, calls := fakeProvider(t, map[string]func([]json.RawMessage) (any, map[string]any){
			"eth_requestAccounts": func([]json.RawMessage) (any, map[string]any) {
				return []string{alice.Hex(), bob.Hex()}, nil
			},
		})
		p, _ := New(srv.URL)

		accounts, err := p.RequestAccounts(t.Context())

		require.NoError(t, err)
		assert.Equal(t, []common.Address{alice, bob}, accounts)
		assert.Equal(t, "eth_requestAccounts", (*calls)[0].Method)
	})

	t.Run("falls back to eth_accounts on method not found", func(t *testing.T) {
		srv, calls := fakeProvider(t, map[string]func([]json.RawMessage) (any, map[string]any){
			"eth_accounts": func([]json.RawMessage) (any, map[string]any) {
				return []string{bob.Hex()}, nil
			},
		})
		p, _ := New(srv.URL)

		accounts, err := p.RequestAccounts(t.Context())

		require.NoError(t, err)
		assert.Equal(t, []common.Address{bob}, accounts)
		require.Len(t, *calls, 2)
		assert.Equal(t, "eth_accounts", (*calls)[1].Method)
	})

	t.Run("surfaces user rejection", func(t *testing.T) {
		srv, _ := fakeProvider(t, map[string]func([]json.RawMessage) (any, map[string]any){
			"eth_requestAccounts": func([]json.RawMessage) (any, map[string]any) {
				return nil, map[string]any{"code": 4001, "message": "User rejected the request."}
			},
		})
		p, _ := New(srv.URL)

		accounts, err := p.RequestAccounts(t.Context())

		assert.Nil(t, accounts)
		assert.ErrorContains(t, err, "User rejected the request.")
	})
}

func TestRPCProvider_SendTransaction(t *testing.T) {
	var sent map[string]string
	srv, _ := fakeProvider(t, map[string]func([]json.RawMessage) (any, map[string]any){
		"eth_sendTransaction": func(params []json.RawMessage) (any, map[string]any) {
			require.Len(t, params, 1)
			require.NoError(t, json.Unmarshal(params[0], &sent))
			return "0x8a5f7e6f0b7e5a2c8d7e0f7b5a4c3d2e1f0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c", nil
		},
	})
	p, _ := New(srv.URL)

	value, _ := new(big.Int).SetString("1500000000000000000", 10)
	hash, err := p.SendTransaction(t.Context(), TransferArgs(alice, bob, value))

	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x8a5f7e6f0b7e5a2c8d7e0f7b5a4c3d2e1f0a9b8c7d6e5f4a3b2c1d0e9f8a7b6c"), hash)
	// addresses go on the wire in lowercase hex
	assert.Equal(t, strings.ToLower(alice.Hex()), sent["from"])
	assert.Equal(t, alice, common.HexToAddress(sent["from"]))
	assert.Equal(t, bob, common.HexToAddress(sent["to"]))
	assert.Equal(t, "0x5208", sent["gas"])
	assert.Equal(t, "0x14d1120d7b160000", sent["value"])
	assert.NotContains(t, sent, "data")
}
