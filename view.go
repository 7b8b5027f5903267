package main

import (
	"strings"

	"krypt-tui/config"
	"krypt-tui/helpers"
	"krypt-tui/styles"
	"krypt-tui/views/details"
	"krypt-tui/views/home"
	logview "krypt-tui/views/log"
	"krypt-tui/views/send"
	"krypt-tui/views/settings"
	"krypt-tui/views/transactions"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

// renderWalletAlert renders the blocking dialog shown when no wallet
// provider is configured
func (m model) renderWalletAlert() string {
	msg := helpers.FadeString("Please install a wallet provider.", "#F25D94", "#EDFF82")
	hint := lipgloss.NewStyle().Foreground(cMuted).Render("Set WALLET_RPC_URL to a JSON-RPC wallet (Frame, a dev node) and restart.")
	question := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg + "\n\n" + hint)

	okButton := styles.ActiveButtonStyle.Render("OK")
	ui := lipgloss.JoinVertical(lipgloss.Center, question, okButton)

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		styles.DialogBoxStyle.Render(ui),
	)
}

func (m model) renderRPCDeleteDialog() string {
	msg := helpers.FadeString("Are you sure you want to delete the RPC endpoint "+m.deleteRPCDialogName+"?", "#F25D94", "#EDFF82")
	question := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg)

	var okButton, cancelButton string
	if m.deleteRPCDialogYesSelected {
		okButton = styles.ActiveButtonStyle.MarginRight(2).Render("Yes")
		cancelButton = styles.ButtonStyle.Render("No")
	} else {
		okButton = styles.ButtonStyle.MarginRight(2).Render("Yes")
		cancelButton = styles.ActiveButtonStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, okButton, cancelButton)
	ui := lipgloss.JoinVertical(lipgloss.Center, question, buttons)

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		styles.DialogBoxStyle.Render(ui),
	)
}

func (m *model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	var addrDisplay string
	if m.state.Connected() {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.state.Account.Hex()), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: not connected")
	}

	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	switch {
	case m.rpcURL == "":
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	case m.rpcConnecting:
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connecting..."
	case !m.rpcConnected:
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	default:
		statusIcon = "●"
		statusColor = cAccent
		for _, r := range m.rpcURLs {
			if r.Active && r.URL == m.rpcURL {
				statusText = r.Name
				break
			}
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("krypt", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Account | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", helpers.Max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", helpers.Max(1, rightPadding))

		headerLine = addrDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// gifFor returns the resolved URL for keyword if it is known
func (m model) gifFor(keyword string) string {
	if keyword == "" {
		return ""
	}
	if keyword == m.gifKeyword && m.gifURL != "" {
		return m.gifURL
	}
	return m.gifCache[keyword]
}

// View implements tea.Model
func (m *model) View() string {
	if m.showWalletAlert {
		return m.renderWalletAlert()
	}

	// Clear clickable areas for fresh render
	m.clickableAreas = nil

	headerPanel := panelStyle.Width(helpers.Max(0, m.w-2)).Render(m.globalHeader())

	var pageContent string
	var nav string

	switch m.activePage {
	case config.PageHome:
		pageContent = panelStyle.Width(helpers.Max(0, m.w-2)).Render(home.Render(m.homeForm))
		nav = home.Nav(m.w - 2)

	case config.PageTransactions:
		listWidth := (m.w - 2) / 2
		list, areas := transactions.Render(m.state.Transactions, m.selectedTx, m.state.TransactionCount, m.state.CountKnown, listWidth)

		// Rows start below the header panel, the page border and padding,
		// and the list title lines
		offsetY := lipgloss.Height(headerPanel) + 2 + 3 - 7
		for _, area := range areas {
			area.Y += offsetY
			m.clickableAreas = append(m.clickableAreas, area)
		}

		right := ""
		if tx, ok := m.selectedTransaction(); ok {
			right = transactions.RenderDetail(tx, m.gifFor(tx.Keyword), m.copiedMsg)
		}
		content := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(listWidth).Render(list),
			lipgloss.NewStyle().PaddingLeft(2).Render(right),
		)
		pageContent = panelStyle.Width(helpers.Max(0, m.w-2)).Render(content)
		nav = transactions.Nav(m.w - 2)

	case config.PageSend:
		formView := ""
		if m.sendForm != nil {
			formView = m.sendForm.View()
		}
		st := send.Status{
			Connected:   m.state.Connected(),
			Account:     m.state.Account.Hex(),
			Loading:     m.sending || m.state.Loading,
			SpinnerView: m.spin.View(),
			Keyword:     m.state.Form.Keyword,
			GifURL:      m.gifFor(m.state.Form.Keyword),
			Result:      m.sendResult,
			Err:         m.sendErr,
		}
		pageContent = panelStyle.Width(helpers.Max(0, m.w-2)).Render(send.Render(formView, st, m.w-8))
		nav = send.Nav(m.w-2, st.Loading)

	case config.PageDetails:
		detailsContent := details.Render(m.details, m.loading, m.copiedMsg, m.spin.View(), m.showQR)
		pageContent = panelStyle.Width(helpers.Max(0, m.w-2)).Render(detailsContent)
		nav = details.Nav(m.w - 2)

	case config.PageSettings:
		settingsContent := settings.Render(m.rpcURLs, m.selectedRPCIdx, m.app.Config)

		// Show form if in add/edit mode
		if (m.settingsMode == "add" || m.settingsMode == "edit") && m.form != nil {
			settingsContent = styles.TitleStyle.Render("RPC Settings") + "\n\n" + m.form.View()
		}

		pageContent = panelStyle.Width(helpers.Max(0, m.w-2)).Render(settingsContent)
		nav = settings.Nav(m.w-2, m.settingsMode)

		if m.showRPCDeleteDialog {
			return m.renderRPCDeleteDialog()
		}
	}

	sections := []string{headerPanel, pageContent, nav}

	// Render log panel only if enabled
	if m.logEnabled {
		m.logViewport.Height = logview.PanelHeight(m.h)
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
