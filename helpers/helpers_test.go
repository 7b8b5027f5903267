package helpers

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShortenAddr(t *testing.T) {
	assert.Equal(t, "0x742d…bEb2", ShortenAddr("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb2"))
	assert.Equal(t, "0x12", ShortenAddr("0x12"))
}

func TestIsValidEthAddress(t *testing.T) {
	assert.True(t, IsValidEthAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb2"))
	assert.False(t, IsValidEthAddress("742d35Cc6634C0532925a3b844Bc9e7595f0bEb2"))
	assert.False(t, IsValidEthAddress("0x742d35Cc"))
	assert.False(t, IsValidEthAddress("0xZZ2d35Cc6634C0532925a3b844Bc9e7595f0bEb2"))
}

func TestFormatETH(t *testing.T) {
	assert.Equal(t, "1.500000 ETH", FormatETH(big.NewInt(1_500_000_000_000_000_000)))
	assert.Equal(t, "0 ETH", FormatETH(nil))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5 ETH", FormatAmount(1.5))
	assert.Equal(t, "2 ETH", FormatAmount(2))
	assert.Equal(t, "0.000001 ETH", FormatAmount(0.000001))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "-", FormatTimestamp(time.Time{}))
	assert.Equal(t, "-", FormatTimestamp(time.Unix(0, 0)))

	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-03-01 12:30:00", FormatTimestamp(ts))
}

func TestLoadedAt(t *testing.T) {
	assert.Equal(t, "loading…", LoadedAt(time.Now(), true))
	assert.Equal(t, "never", LoadedAt(time.Time{}, false))
}

func TestHyperlink(t *testing.T) {
	link := Hyperlink("https://example.com", "click")

	assert.True(t, strings.HasPrefix(link, "\x1b]8;;https://example.com\x1b\\"))
	assert.Contains(t, link, "click")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "hello", Truncate("hello", 0))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 3, Max(1, 3))
	assert.Equal(t, 1, Min(1, 3))
}

func TestQRCode(t *testing.T) {
	assert.Empty(t, QRCode(""))

	qr := QRCode("0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb2")
	assert.NotEmpty(t, qr)
	assert.Greater(t, strings.Count(qr, "\n"), 5)
}

func TestFadeString(t *testing.T) {
	assert.Empty(t, FadeString("", "#000000", "#FFFFFF"))
	assert.NotEmpty(t, FadeString("krypt", "#7EE787", "#82CFFD"))
}
