package details

import (
	"math/big"
	"testing"
	"time"

	"krypt-tui/config"

	"github.com/stretchr/testify/assert"
)

const addr = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb2"

func TestRender(t *testing.T) {
	t.Run("should prompt to connect without an account", func(t *testing.T) {
		out := Render(config.WalletDetails{}, false, "", "", true)

		assert.Contains(t, out, "No account connected")
	})

	t.Run("should show the spinner while loading", func(t *testing.T) {
		out := Render(config.WalletDetails{Address: addr}, true, "", "*", true)

		assert.Contains(t, out, "fetching balance")
	})

	t.Run("should show load errors", func(t *testing.T) {
		out := Render(config.WalletDetails{Address: addr, ErrMessage: "Failed to load ETH balance."}, false, "", "", true)

		assert.Contains(t, out, "Failed to load ETH balance.")
		assert.Contains(t, out, "ETH_RPC_URL")
	})

	t.Run("should show balance and QR", func(t *testing.T) {
		d := config.WalletDetails{Address: addr, EthWei: big.NewInt(2_000_000_000_000_000_000), LoadedAt: time.Now()}

		withQR := Render(d, false, "Copied!", "", true)
		withoutQR := Render(d, false, "", "", false)

		assert.Contains(t, withQR, "2.000000 ETH")
		assert.Contains(t, withQR, "Copied!")
		assert.Greater(t, len(withQR), len(withoutQR))
	})
}
