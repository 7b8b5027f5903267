package home

import (
	"strings"

	"krypt-tui/styles"

	"github.com/charmbracelet/huh"
)

// Menu values returned through TempSelection
const (
	SelectTransactions = "transactions"
	SelectSend         = "send"
	SelectAccount      = "account"
	SelectConnect      = "connect"
	SelectSettings     = "settings"
)

// TempSelection stores the home menu selection
var TempSelection string

// CreateForm creates the home menu form
func CreateForm(connected bool) *huh.Form {
	TempSelection = ""

	connectLabel := "Connect Wallet"
	if connected {
		connectLabel = "Reconnect Wallet"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Transactions", SelectTransactions),
					huh.NewOption("Send Ether", SelectSend),
					huh.NewOption("Account", SelectAccount),
					huh.NewOption(connectLabel, SelectConnect),
					huh.NewOption("RPC Settings", SelectSettings),
				).
				Title("Main Menu").
				Description("Send ether across the world and browse the ledger").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the home view
func Render(form *huh.Form) string {
	if form != nil {
		return form.View()
	}
	return "Loading menu..."
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
