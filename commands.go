package main

import (
	"context"
	"time"

	"krypt-tui/config"
	"krypt-tui/gif"
	"krypt-tui/rpc"
	"krypt-tui/transfer"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// requestTimeout bounds wallet prompts and reads. The confirmation wait is
// not bounded.
const requestTimeout = 2 * time.Minute

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// initService runs the account check and the count check
func initService(svc *transfer.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return initDoneMsg{err: svc.Init(ctx)}
	}
}

// connectWallet asks the wallet for account access
func connectWallet(svc *transfer.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return walletConnectedMsg{err: svc.ConnectWallet(ctx)}
	}
}

// loadTransactions refreshes the contract history
func loadTransactions(svc *transfer.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return transactionsLoadedMsg{err: svc.GetAllTransactions(ctx)}
	}
}

// sendTransaction submits the current form
func sendTransaction(svc *transfer.Service) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.SendTransaction(context.Background())
		return sendDoneMsg{result: res, err: err}
	}
}

// resolveGif looks up the gif for keyword
func resolveGif(r *gif.Resolver, keyword string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return gifResolvedMsg{keyword: keyword, url: r.Resolve(ctx, keyword)}
	}
}

// loadDetails fetches the account balance
func loadDetails(client *rpc.Client, addr common.Address) tea.Cmd {
	return func() tea.Msg {
		return detailsLoadedMsg{d: rpc.LoadWalletDetails(client, addr)}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return nil
		}
		return clipboardCopiedMsg{what: what}
	}
}

// clearClipboard waits 2 seconds then clears clipboard feedback
func clearClipboard() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearClipboardMsg{}
	})
}

// -------------------- MODEL HELPER METHODS --------------------

// addLog adds a log entry through the shared logger
func (m *model) addLog(logType, message string, keyvals ...any) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport when the buffer has grown
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}

	n := m.logBuffer.Len()
	if n == m.logLen {
		return
	}
	m.logLen = n
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// loadAccountDetails loads the balance of the connected account
func (m *model) loadAccountDetails() tea.Cmd {
	if !m.state.Connected() {
		return nil
	}
	m.loading = true
	m.details = detailsFor(m.state.Account)
	return loadDetails(m.app.Node(), m.state.Account)
}

// requestGif resolves keyword unless it is empty or already cached. The
// keyword becomes the current one, so results for older keywords are
// dropped when they arrive.
func (m *model) requestGif(keyword string) tea.Cmd {
	m.gifKeyword = keyword
	if keyword == "" {
		m.gifURL = ""
		return nil
	}
	if u, ok := m.gifCache[keyword]; ok {
		m.gifURL = u
		return nil
	}
	m.gifURL = ""
	return resolveGif(m.app.Gif, keyword)
}

// selectedTransaction returns the highlighted transaction, if any
func (m model) selectedTransaction() (transfer.Transaction, bool) {
	if m.selectedTx < 0 || m.selectedTx >= len(m.state.Transactions) {
		return transfer.Transaction{}, false
	}
	return m.state.Transactions[m.selectedTx], true
}

// textInputActive returns true if any text input is currently active
func (m model) textInputActive() bool {
	if m.activePage == config.PageSend && m.sendForm != nil {
		return true
	}
	if (m.settingsMode == "add" || m.settingsMode == "edit") && m.form != nil {
		return true
	}
	return false
}
