package send

import (
	"strconv"
	"strings"

	"krypt-tui/helpers"
	"krypt-tui/styles"
	"krypt-tui/transfer"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the send panel shows next to the form
type Status struct {
	Connected   bool
	Account     string
	Loading     bool
	SpinnerView string
	Keyword     string
	GifURL      string
	Result      *transfer.SendResult
	Err         string
}

// Nav returns the navigation bar for the send view
func Nav(width int, loading bool) string {
	keys := []string{
		styles.Key("Tab") + " next field",
		styles.Key("Enter") + " submit",
	}
	if !loading {
		keys = append(keys, styles.Key("Esc")+" back")
	}
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Render renders the send form and its status panel side by side
func Render(formView string, st Status, width int) string {
	left := styles.TitleStyle.Render("Send Ether") + "\n\n" + formView
	right := renderStatus(st)

	leftWidth := helpers.Max(0, (width*55)/100)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(leftWidth).Render(left),
		lipgloss.NewStyle().PaddingLeft(2).Render(right),
	)
}

func renderStatus(st Status) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)
	lines := []string{styles.TitleStyle.Render("Status"), ""}

	if st.Connected {
		lines = append(lines, muted.Render("From ")+helpers.FadeString(helpers.ShortenAddr(st.Account), "#F25D94", "#EDFF82"))
	} else {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ Wallet not connected (press w)"))
	}

	if st.Keyword != "" {
		lines = append(lines, "", muted.Render("Gif for ")+lipgloss.NewStyle().Foreground(styles.CAccent).Render("#"+st.Keyword))
		if st.GifURL == "" {
			lines = append(lines, st.SpinnerView+" searching…")
		} else {
			link := lipgloss.NewStyle().Foreground(styles.CAccent2).Underline(true).Render(helpers.Truncate(st.GifURL, 48))
			lines = append(lines, helpers.Hyperlink(st.GifURL, link))
		}
	}

	if st.Loading {
		lines = append(lines, "", st.SpinnerView+" waiting for confirmation…")
	}

	if st.Err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true).Render("Error: "+st.Err))
	}

	if st.Result != nil && !st.Loading {
		ok := lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true)
		lines = append(lines, "",
			ok.Render("✓ Recorded"),
			muted.Render("transfer ")+helpers.ShortenAddr(st.Result.TransferHash.Hex()),
			muted.Render("record   ")+helpers.ShortenAddr(st.Result.RecordHash.Hex()),
		)
		if st.Result.Count > 0 {
			lines = append(lines, muted.Render("count    ")+lipgloss.NewStyle().Foreground(styles.CText).Render(strconv.FormatUint(st.Result.Count, 10)))
		}
	}

	return strings.Join(lines, "\n")
}
