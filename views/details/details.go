package details

import (
	"fmt"
	"strings"

	"krypt-tui/config"
	"krypt-tui/helpers"
	"krypt-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for details view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("c") + " copy address",
		styles.Key("w") + " connect wallet",
		styles.Key("r") + " refresh",
		styles.Key("t") + " transactions",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the connected account: address, balance and a QR code
func Render(details config.WalletDetails, loading bool, copiedMsg string, spinnerView string, showQR bool) string {
	h := styles.TitleStyle.Render("Account Details")

	if details.Address == "" {
		hint := lipgloss.NewStyle().Foreground(styles.CMuted).Render("No account connected. Press ") + styles.Key("w") +
			lipgloss.NewStyle().Foreground(styles.CMuted).Render(" to connect your wallet.")
		return h + "\n\n" + hint
	}

	// OSC 8 hyperlink to the block explorer
	etherscanURL := fmt.Sprintf("https://etherscan.io/address/%s", details.Address)
	addrStyle := lipgloss.NewStyle().Foreground(styles.CMuted).Underline(true)
	sub := helpers.Hyperlink(etherscanURL, addrStyle.Render(details.Address))

	if copiedMsg != "" {
		sub += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg)
	}

	if loading {
		return h + "\n" + sub + "\n\n" + spinnerView + " fetching balance…"
	}

	if details.ErrMessage != "" {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ " + details.ErrMessage)
		hint := lipgloss.NewStyle().Foreground(styles.CMuted).Render("Tip: set ") + lipgloss.NewStyle().Foreground(styles.CAccent).Render("ETH_RPC_URL") +
			lipgloss.NewStyle().Foreground(styles.CMuted).Render(" then press ") + styles.Key("r") + lipgloss.NewStyle().Foreground(styles.CMuted).Render(" to refresh.")
		return h + "\n" + sub + "\n\n" + msg + "\n\n" + hint
	}

	ethLine := fmt.Sprintf("%s  %s",
		lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("ETH"),
		lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.FormatETH(details.EthWei)),
	)
	updated := lipgloss.NewStyle().Foreground(styles.CMuted).Render("updated " + helpers.LoadedAt(details.LoadedAt, false))

	lines := []string{h, sub, "", ethLine, updated}
	if showQR {
		lines = append(lines, "", helpers.QRCode(details.Address))
	}
	return strings.Join(lines, "\n")
}
