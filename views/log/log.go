package log

import (
	"fmt"

	"krypt-tui/helpers"
	"krypt-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// reservedHeight is the header, nav, panel borders and margins
const reservedHeight = 10

// PanelHeight returns how many log lines fit for a terminal of height h:
// at most a third of the screen and never more than 15 lines.
func PanelHeight(h int) int {
	available := helpers.Max(5, h-reservedHeight)
	return helpers.Min(available, helpers.Min(h/3, 15))
}

// Render renders the log panel
func Render(width, height int, logReady bool, logSpinnerView string, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	vp.Height = PanelHeight(height)

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(vp.Height + 2)

	if !logReady {
		return border.Render(title + "\n\n" + "initializing...\n" + logSpinnerView)
	}

	if vp.TotalLineCount() > vp.Height {
		title += lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + "\n\n" + vp.View())
}
