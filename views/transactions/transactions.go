package transactions

import (
	"fmt"
	"strings"

	"krypt-tui/config"
	"krypt-tui/helpers"
	"krypt-tui/styles"
	"krypt-tui/transfer"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the transactions view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " move",
		styles.Key("r") + " refresh",
		styles.Key("c") + " copy gif url",
		styles.Key("n") + " send",
		styles.Key("h") + " home",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// RenderList renders the transaction rows, newest first, and the clickable
// area of each row. Index in the areas refers to txs.
func RenderList(txs []transfer.Transaction, selectedIdx int, width int) (string, []config.ClickableArea) {
	var rows []string
	var areas []config.ClickableArea
	currentY := 7

	if len(txs) == 0 {
		return lipgloss.NewStyle().Foreground(styles.CMuted).Render("No transactions yet. Press 'n' to send one."), nil
	}

	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		var marker string
		var itemStyle lipgloss.Style
		var route string

		if i == selectedIdx {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			itemStyle = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
			route = helpers.ShortenAddr(tx.AddressFrom.Hex()) + " → " + helpers.ShortenAddr(tx.AddressTo.Hex())
		} else {
			marker = "  "
			itemStyle = lipgloss.NewStyle().Foreground(styles.CText)
			route = helpers.FadeString(helpers.ShortenAddr(tx.AddressFrom.Hex())+" → "+helpers.ShortenAddr(tx.AddressTo.Hex()), "#F25D94", "#EDFF82")
		}

		amount := itemStyle.Render(fmt.Sprintf("%-14s", helpers.FormatAmount(tx.Amount)))
		when := lipgloss.NewStyle().Foreground(styles.CMuted).Render(helpers.FormatTimestamp(tx.Timestamp))
		line := marker + amount + " " + route
		sub := "  " + when
		if tx.Keyword != "" {
			sub += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render("#"+tx.Keyword)
		}
		rows = append(rows, line+"\n"+sub)

		areas = append(areas, config.ClickableArea{
			X:      2,
			Y:      currentY,
			Width:  helpers.Max(0, width-4),
			Height: 2,
			Action: "select-tx",
			Index:  i,
		})
		currentY += 3
	}

	return strings.Join(rows, "\n\n"), areas
}

// RenderDetail renders the selected transaction with its resolved gif URL
func RenderDetail(tx transfer.Transaction, gifURL string, copiedMsg string) string {
	label := lipgloss.NewStyle().Foreground(styles.CMuted)
	value := lipgloss.NewStyle().Foreground(styles.CText)

	lines := []string{
		styles.TitleStyle.Render("Transfer"),
		"",
		label.Render("From    ") + value.Render(tx.AddressFrom.Hex()),
		label.Render("To      ") + value.Render(tx.AddressTo.Hex()),
		label.Render("Amount  ") + lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(helpers.FormatAmount(tx.Amount)),
		label.Render("Time    ") + value.Render(helpers.FormatTimestamp(tx.Timestamp)),
	}

	if tx.Message != "" {
		lines = append(lines, label.Render("Message ")+value.Render(tx.Message))
	}
	if tx.Keyword != "" {
		lines = append(lines, label.Render("Keyword ")+value.Render(tx.Keyword))
		switch gifURL {
		case "":
			lines = append(lines, label.Render("Gif     ")+label.Render("resolving…"))
		default:
			link := lipgloss.NewStyle().Foreground(styles.CAccent2).Underline(true).Render(gifURL)
			lines = append(lines, label.Render("Gif     ")+helpers.Hyperlink(gifURL, link))
		}
	}

	if copiedMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg))
	}

	return strings.Join(lines, "\n")
}

// Render renders the list header and rows
func Render(txs []transfer.Transaction, selectedIdx int, count uint64, countKnown bool, width int) (string, []config.ClickableArea) {
	header := styles.TitleStyle.Render("Latest Transactions")

	total := "count unknown"
	if countKnown {
		total = fmt.Sprintf("%d on chain", count)
	}
	subtitle := lipgloss.NewStyle().Foreground(styles.CMuted).Render(fmt.Sprintf("%d loaded · %s", len(txs), total))

	list, areas := RenderList(txs, selectedIdx, width)
	return header + "\n" + subtitle + "\n\n" + list, areas
}
