package settings

import (
	"strings"

	"krypt-tui/config"
	"krypt-tui/helpers"
	"krypt-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for settings view
func Nav(width int, settingsMode string) string {
	var left string
	if settingsMode == "add" || settingsMode == "edit" {
		left = strings.Join([]string{
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("a") + " add",
			styles.Key("e") + " edit",
			styles.Key("d") + " delete",
			styles.Key("h") + " home",
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the RPC endpoints and the endpoints the client was
// configured with
func Render(rpcURLs []config.RPCUrl, selectedIdx int, cfg config.Config) string {
	h := styles.TitleStyle.Render("Settings")
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	lines := []string{h, ""}

	if len(rpcURLs) == 0 {
		lines = append(lines, muted.Render("No RPC URLs configured."))
		lines = append(lines, "")
		lines = append(lines, muted.Render("Press ")+styles.Key("a")+muted.Render(" to add your first RPC URL."))
	} else {
		lines = append(lines, muted.Render("Node endpoints:"))
		lines = append(lines, "")

		for i, rpc := range rpcURLs {
			var marker string
			if rpc.Active {
				marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
			} else {
				marker = muted.Render("○ ")
			}

			nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
			urlStyle := muted

			if i == selectedIdx {
				nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
				urlStyle = urlStyle.Background(styles.CPanel)
				marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
			}

			lines = append(lines, marker+nameStyle.Render(rpc.Name))
			lines = append(lines, "  "+urlStyle.Render(rpc.URL))
			lines = append(lines, "")
		}
	}

	lines = append(lines, muted.Render("Session:"))
	lines = append(lines, "  "+muted.Render("wallet   ")+orUnset(cfg.WalletURL))
	lines = append(lines, "  "+muted.Render("contract ")+orUnset(helpers.ShortenAddr(cfg.ContractAddress)))
	giphy := "set"
	if cfg.GiphyAPIKey == "" {
		giphy = ""
	}
	lines = append(lines, "  "+muted.Render("giphy    ")+orUnset(giphy))
	store := "file"
	if cfg.Redis.Addr != "" {
		store = "redis " + cfg.Redis.Addr
	}
	lines = append(lines, "  "+muted.Render("store    ")+store)

	return strings.Join(lines, "\n")
}

func orUnset(s string) string {
	if s == "" {
		return lipgloss.NewStyle().Foreground(styles.CWarn).Render("not set")
	}
	return lipgloss.NewStyle().Foreground(styles.CText).Render(s)
}
