package helpers

import (
	"fmt"
	"image/color"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
)

var ethAddressRE = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

// ShortenAddr shortens an Ethereum address for display
func ShortenAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// IsValidEthAddress checks if a string is a valid Ethereum address
func IsValidEthAddress(s string) bool {
	return ethAddressRE.MatchString(s)
}

// FormatETH formats Wei to ETH with proper decimals
func FormatETH(wei *big.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	return eth.Text('f', 6) + " ETH"
}

// FormatAmount renders a display amount without trailing zeros
func FormatAmount(eth float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.6f", eth), "0")
	return strings.TrimSuffix(s, ".") + " ETH"
}

// LoadedAt formats the loaded timestamp
func LoadedAt(t time.Time, loading bool) string {
	if loading {
		return "loading…"
	}
	if t.IsZero() {
		return "never"
	}
	return t.Format("15:04:05")
}

// FormatTimestamp renders a transaction time in local time
func FormatTimestamp(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// FadeString creates a gradient colored string
func FadeString(s string, firstColor string, lastColor string) string {
	if s == "" {
		return ""
	}
	blends := gamut.Blends(lipgloss.Color(firstColor), lipgloss.Color(lastColor), len([]rune(s)))
	return rainbow(lipgloss.NewStyle(), s, blends)
}

func rainbow(baseStyle lipgloss.Style, str string, colors []color.Color) string {
	var b strings.Builder
	for i, c := range []rune(str) {
		col, _ := colorful.MakeColor(colors[i%len(colors)])
		b.WriteString(baseStyle.Foreground(lipgloss.Color(col.Hex())).Render(string(c)))
	}
	return b.String()
}

// Hyperlink wraps text in an OSC 8 terminal hyperlink
func Hyperlink(url, text string) string {
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, text)
}

// Truncate cuts s to n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
