package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"krypt-tui/config"
	"krypt-tui/gif"
	"krypt-tui/helpers"
	"krypt-tui/transfer"
	"krypt-tui/views/home"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// gifDebounce is how long the keyword field must stay unchanged before a
// lookup is issued
const gifDebounce = 400 * time.Millisecond

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempRPCFormName string
	tempRPCFormURL  string
	tempSendTo      string
	tempSendAmount  string
	tempSendKeyword string
	tempSendMessage string
)

// createSendForm builds the send form prefilled with the service's form
// state, so values survive leaving the page and submitting.
func (m *model) createSendForm() {
	f := m.app.Service.Snapshot().Form
	tempSendTo = f.AddressTo
	tempSendAmount = f.Amount
	tempSendKeyword = f.Keyword
	tempSendMessage = f.Message

	m.sendForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Address To").
				Description("Receiver address (Ctrl+v to paste)").
				Value(&tempSendTo).
				Placeholder("0x...").
				Validate(func(s string) error {
					if !helpers.IsValidEthAddress(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid ethereum address")
					}
					return nil
				}),

			huh.NewInput().
				Title("Amount (ETH)").
				Value(&tempSendAmount).
				Placeholder("0.0001").
				Validate(func(s string) error {
					wei, err := transfer.ParseEther(s)
					if err != nil {
						return err
					}
					if wei.Sign() <= 0 {
						return fmt.Errorf("amount must be greater than 0")
					}
					return nil
				}),

			huh.NewInput().
				Title("Keyword (Gif)").
				Value(&tempSendKeyword).
				Placeholder("cat"),

			huh.NewInput().
				Title("Enter Message").
				Value(&tempSendMessage).
				Placeholder("thanks for lunch"),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.sendForm.Init()
}

func (m *model) createAddRPCForm() {
	tempRPCFormName = ""
	tempRPCFormURL = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Description("A friendly name for this RPC endpoint").
				Value(&tempRPCFormName).
				Placeholder("Local node"),

			huh.NewInput().
				Title("RPC URL").
				Description("The complete RPC URL (http://...)").
				Value(&tempRPCFormURL).
				Placeholder("http://127.0.0.1:8545"),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

func (m *model) createEditRPCForm(idx int) {
	if idx < 0 || idx >= len(m.rpcURLs) {
		return
	}

	rpc := m.rpcURLs[idx]
	tempRPCFormName = rpc.Name
	tempRPCFormURL = rpc.URL

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Value(&tempRPCFormName).
				Placeholder("My Node"),

			huh.NewInput().
				Title("RPC URL").
				Value(&tempRPCFormURL).
				Placeholder("http://..."),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

// syncSendForm pushes the form fields into the service and schedules a gif
// lookup when the keyword changed
func (m *model) syncSendForm() tea.Cmd {
	prev := m.app.Service.Snapshot().Form
	next := transfer.FormData{
		AddressTo: strings.TrimSpace(tempSendTo),
		Amount:    strings.TrimSpace(tempSendAmount),
		Keyword:   tempSendKeyword,
		Message:   tempSendMessage,
	}
	if next == prev {
		return nil
	}
	m.app.Service.SetForm(next)
	if next.Keyword == prev.Keyword {
		return nil
	}
	kw := tempSendKeyword
	return tea.Tick(gifDebounce, func(time.Time) tea.Msg {
		return gifDebounceMsg{keyword: kw}
	})
}

// goTo switches page and returns what the page needs loaded
func (m *model) goTo(page config.Page) tea.Cmd {
	m.activePage = page
	m.copiedMsg = ""

	switch page {
	case config.PageHome:
		m.homeForm = home.CreateForm(m.state.Connected())
		return nil

	case config.PageTransactions:
		if m.selectedTx < 0 || m.selectedTx >= len(m.state.Transactions) {
			m.selectedTx = len(m.state.Transactions) - 1
		}
		var cmds []tea.Cmd
		if tx, ok := m.selectedTransaction(); ok {
			cmds = append(cmds, m.requestGif(tx.Keyword))
		}
		if m.state.Connected() {
			cmds = append(cmds, loadTransactions(m.app.Service))
		}
		return tea.Batch(cmds...)

	case config.PageSend:
		m.createSendForm()
		return m.requestGif(tempSendKeyword)

	case config.PageDetails:
		return m.loadAccountDetails()

	case config.PageSettings:
		m.settingsMode = "list"
		m.form = nil
		return nil
	}
	return nil
}

// walletError opens the alert when err says no wallet is installed and
// logs anything else
func (m *model) walletError(op string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, transfer.ErrNoWallet) {
		m.showWalletAlert = true
		m.addLog("warning", "No wallet provider installed", "op", op)
		return
	}
	m.addLog("error", "Wallet request failed", "op", op, "err", err)
}

// -------------------- UPDATE --------------------

// Update handles all messages and updates the model accordingly
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The wallet alert blocks all input until dismissed
	if m.showWalletAlert {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "enter", "esc", " ":
				m.showWalletAlert = false
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		case tea.MouseMsg:
			return m, nil
		}
	}

	// Handle form updates first (before message switching)
	if m.activePage == config.PageHome && m.homeForm != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			case "l", "L":
				return m, m.toggleLogger()
			case "w":
				m.addLog("info", "Requesting wallet accounts")
				return m, connectWallet(m.app.Service)
			}
		}

		form, cmd := m.homeForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.homeForm = f

			if m.homeForm.State == huh.StateCompleted {
				switch home.TempSelection {
				case home.SelectTransactions:
					return m, m.goTo(config.PageTransactions)
				case home.SelectSend:
					return m, m.goTo(config.PageSend)
				case home.SelectAccount:
					return m, m.goTo(config.PageDetails)
				case home.SelectSettings:
					return m, m.goTo(config.PageSettings)
				case home.SelectConnect:
					m.homeForm = home.CreateForm(m.state.Connected())
					m.addLog("info", "Requesting wallet accounts")
					return m, connectWallet(m.app.Service)
				}
				m.homeForm = home.CreateForm(m.state.Connected())
				return m, nil
			}
		}
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		// non-key messages still need the switch below
		m.pending = cmd
	}

	if m.activePage == config.PageSend && m.sendForm != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				// The confirmation wait cannot be abandoned from here
				if m.sending || m.state.Loading {
					return m, nil
				}
				m.sendForm = nil
				return m, m.goTo(config.PageHome)
			case "ctrl+c":
				return m, tea.Quit
			case "ctrl+y":
				if m.sendResult != nil {
					return m, copyToClipboard(m.sendResult.RecordHash.Hex(), "tx hash")
				}
				return m, nil
			}
		}

		form, cmd := m.sendForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.sendForm = f
			cmds := []tea.Cmd{cmd, m.syncSendForm()}

			if m.sendForm.State == huh.StateCompleted {
				if m.sending || m.state.Loading {
					m.addLog("warning", "A transaction is already pending")
					m.createSendForm()
					return m, nil
				}
				m.sending = true
				m.sendErr = ""
				m.sendResult = nil
				m.addLog("info", fmt.Sprintf("Sending %s ETH to `%s`", tempSendAmount, helpers.ShortenAddr(tempSendTo)))
				m.createSendForm()
				return m, sendTransaction(m.app.Service)
			}

			if m.sendForm.State == huh.StateAborted {
				m.sendForm = nil
				return m, m.goTo(config.PageHome)
			}

			if _, ok := msg.(tea.KeyMsg); ok {
				return m, tea.Batch(cmds...)
			}
			m.pending = tea.Batch(cmds...)
		}
	}

	if m.activePage == config.PageSettings && (m.settingsMode == "add" || m.settingsMode == "edit") && m.form != nil {
		// Intercept ESC key to cancel form
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.settingsMode = "list"
			m.form = nil
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f

			if m.form.State == huh.StateCompleted {
				name := strings.TrimSpace(tempRPCFormName)
				url := strings.TrimSpace(tempRPCFormURL)
				if m.settingsMode == "add" {
					if name != "" && url != "" {
						m.rpcURLs = append(m.rpcURLs, config.RPCUrl{Name: name, URL: url})
						m.saveConfig()
						m.addLog("success", fmt.Sprintf("Added RPC endpoint: `%s` (%s)", name, url))
					}
				} else if m.selectedRPCIdx >= 0 && m.selectedRPCIdx < len(m.rpcURLs) {
					m.rpcURLs[m.selectedRPCIdx].Name = name
					m.rpcURLs[m.selectedRPCIdx].URL = url
					m.saveConfig()
					m.addLog("success", fmt.Sprintf("Updated RPC endpoint: `%s`", name))
				}
				m.settingsMode = "list"
				m.form = nil
				// Return without the form's cmd to ensure we're back in list mode
				return m, nil
			}

			if m.form.State == huh.StateAborted {
				m.settingsMode = "list"
				m.form = nil
				return m, nil
			}
		}
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		m.pending = cmd
	}

	next, cmd := m.handle(msg)
	if m.pending != nil {
		cmd = tea.Batch(m.pending, cmd)
		m.pending = nil
	}
	return next, cmd
}

// handle processes messages not consumed by an active form
func (m *model) handle(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logReady = true
		m.logLen = -1
		m.addLog("info", "Logger enabled")
		return m, nil

	case rpcConnectedMsg:
		m.rpcConnecting = false
		if msg.err != nil {
			m.rpcConnected = false
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
		} else {
			m.rpcConnected = true
			m.addLog("success", fmt.Sprintf("RPC connected to `%s`", msg.client.URL), "chain", msg.client.ChainID)
			if err := m.app.BindNode(msg.client); err != nil {
				m.addLog("error", "Contract not bound", "err", err)
			}
		}
		// Startup checks run once a node is known, reachable or not
		m.initialized = true
		return m, initService(m.app.Service)

	case initDoneMsg:
		m.state = m.app.Service.Snapshot()
		if msg.err != nil {
			if errors.Is(msg.err, transfer.ErrNoWallet) {
				if !m.walletAlerted {
					m.walletAlerted = true
					m.walletError("init", transfer.ErrNoWallet)
				}
			} else {
				m.addLog("error", "Startup checks failed", "err", msg.err)
			}
		}
		if m.state.Connected() {
			m.addLog("success", fmt.Sprintf("Account `%s` connected", helpers.ShortenAddr(m.state.Account.Hex())))
			m.homeForm = m.refreshHomeForm()
			return m, m.loadAccountDetails()
		}
		return m, nil

	case walletConnectedMsg:
		m.state = m.app.Service.Snapshot()
		if msg.err != nil {
			m.walletError("connect", msg.err)
			return m, nil
		}
		m.addLog("success", fmt.Sprintf("Connected `%s`", helpers.ShortenAddr(m.state.Account.Hex())))
		m.homeForm = m.refreshHomeForm()
		return m, tea.Batch(m.loadAccountDetails(), loadTransactions(m.app.Service))

	case transactionsLoadedMsg:
		m.state = m.app.Service.Snapshot()
		if msg.err != nil {
			if errors.Is(msg.err, transfer.ErrNoWallet) {
				m.addLog("warning", "Ethereum is not present")
			} else {
				m.addLog("error", "Could not load transactions", "err", msg.err)
			}
			return m, nil
		}
		m.addLog("info", fmt.Sprintf("Loaded %d transactions", len(m.state.Transactions)))
		if m.activePage == config.PageTransactions {
			if tx, ok := m.selectedTransaction(); ok {
				return m, m.requestGif(tx.Keyword)
			}
		}
		return m, nil

	case sendDoneMsg:
		m.state = m.app.Service.Snapshot()
		m.sending = false
		if msg.err != nil {
			m.sendResult = nil
			m.sendErr = msg.err.Error()
			m.walletError("send", msg.err)
			if m.activePage == config.PageSend {
				m.createSendForm()
			}
			return m, nil
		}
		m.sendErr = ""
		m.sendResult = msg.result
		m.addLog("success", fmt.Sprintf("Transfer recorded in `%s`", helpers.ShortenAddr(msg.result.RecordHash.Hex())), "count", msg.result.Count)
		if m.activePage == config.PageSend {
			m.createSendForm()
		}
		return m, tea.Batch(loadTransactions(m.app.Service), m.loadAccountDetails())

	case gifDebounceMsg:
		// Only the keyword that is still typed is looked up
		if m.activePage != config.PageSend || msg.keyword != tempSendKeyword {
			return m, nil
		}
		return m, m.requestGif(msg.keyword)

	case gifResolvedMsg:
		// failed lookups are retried on the next keyword change
		if msg.url != gif.Placeholder {
			m.gifCache[msg.keyword] = msg.url
		}
		if msg.keyword != m.gifKeyword {
			m.addLog("debug", "Dropped stale gif", "keyword", msg.keyword)
			return m, nil
		}
		m.gifURL = msg.url
		return m, nil

	case stateMsg:
		m.state = m.app.Service.Snapshot()
		if m.selectedTx < 0 || m.selectedTx >= len(m.state.Transactions) {
			m.selectedTx = len(m.state.Transactions) - 1
		}
		m.updateLogViewport()
		return m, nil

	case detailsLoadedMsg:
		m.loading = false
		m.details = msg.d
		if m.details.ErrMessage != "" {
			m.addLog("error", fmt.Sprintf("Account `%s`: %s", helpers.ShortenAddr(m.details.Address), m.details.ErrMessage))
		} else {
			m.addLog("success", fmt.Sprintf("Loaded details for `%s` - ETH: %s", helpers.ShortenAddr(m.details.Address), helpers.FormatETH(m.details.EthWei)))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height

		// Only initialize viewport if log is enabled
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = helpers.Max(0, msg.Width-6)
			if m.logReady {
				m.logLen = -1
				m.updateLogViewport()
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		// Command goroutines log without passing through Update
		m.updateLogViewport()
		return m, tea.Batch(cmds...)

	case clipboardCopiedMsg:
		m.copiedMsg = "✓ Copied " + msg.what
		m.copiedMsgTime = time.Now()
		m.addLog("info", "Copied "+msg.what+" to clipboard")
		return m, clearClipboard()

	case clearClipboardMsg:
		if time.Since(m.copiedMsgTime) >= 2*time.Second {
			m.copiedMsg = ""
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, area := range m.clickableAreas {
			if !area.Contains(msg.X, msg.Y) {
				continue
			}
			switch area.Action {
			case "select-tx":
				m.selectedTx = area.Index
				m.copiedMsg = ""
				if tx, ok := m.selectedTransaction(); ok {
					return m, m.requestGif(tx.Keyword)
				}
			}
			return m, nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey handles keys for the list pages
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	allowMenuHotkeys := !m.textInputActive() && !m.showRPCDeleteDialog
	// global keys
	if allowMenuHotkeys {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "l", "L":
			return m, m.toggleLogger()

		case "h":
			return m, m.goTo(config.PageHome)

		case "t":
			return m, m.goTo(config.PageTransactions)

		case "n":
			return m, m.goTo(config.PageSend)

		case "a":
			if m.activePage != config.PageSettings {
				return m, m.goTo(config.PageDetails)
			}

		case "s":
			return m, m.goTo(config.PageSettings)

		case "w":
			m.addLog("info", "Requesting wallet accounts")
			return m, connectWallet(m.app.Service)

		case "pageup", "pagedown":
			// Allow scrolling in log viewport when enabled
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return m, cmd
			}
		}
	}

	// page-specific behavior
	switch m.activePage {

	case config.PageTransactions:
		switch msg.String() {
		case "esc":
			return m, m.goTo(config.PageHome)

		case "up", "k":
			// The list is shown newest first
			if m.selectedTx < len(m.state.Transactions)-1 {
				m.selectedTx++
				m.copiedMsg = ""
				if tx, ok := m.selectedTransaction(); ok {
					return m, m.requestGif(tx.Keyword)
				}
			}
			return m, nil

		case "down", "j":
			if m.selectedTx > 0 {
				m.selectedTx--
				m.copiedMsg = ""
				if tx, ok := m.selectedTransaction(); ok {
					return m, m.requestGif(tx.Keyword)
				}
			}
			return m, nil

		case "r":
			m.addLog("info", "Refreshing transactions")
			return m, loadTransactions(m.app.Service)

		case "c":
			if m.gifURL != "" {
				return m, copyToClipboard(m.gifURL, "gif url")
			}
			return m, nil
		}

	case config.PageDetails:
		switch msg.String() {
		case "esc":
			return m, m.goTo(config.PageHome)

		case "c":
			if m.details.Address != "" {
				return m, copyToClipboard(m.details.Address, "address")
			}
			return m, nil

		case "r":
			return m, m.loadAccountDetails()

		case "v":
			m.showQR = !m.showQR
			return m, nil
		}

	case config.PageSettings:
		if m.showRPCDeleteDialog {
			switch msg.String() {
			case "left", "right", "tab":
				m.deleteRPCDialogYesSelected = !m.deleteRPCDialogYesSelected
				return m, nil
			case "enter":
				if m.deleteRPCDialogYesSelected {
					idx := m.deleteRPCDialogIdx
					if idx >= 0 && idx < len(m.rpcURLs) {
						m.rpcURLs = append(m.rpcURLs[:idx], m.rpcURLs[idx+1:]...)
						if m.selectedRPCIdx >= len(m.rpcURLs) && m.selectedRPCIdx > 0 {
							m.selectedRPCIdx--
						}
						m.saveConfig()
						m.addLog("warning", fmt.Sprintf("Deleted RPC endpoint `%s`", m.deleteRPCDialogName))
					}
				}
				m.showRPCDeleteDialog = false
				return m, nil
			case "esc":
				m.showRPCDeleteDialog = false
				return m, nil
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, m.goTo(config.PageHome)

		case "a", "A":
			m.settingsMode = "add"
			m.createAddRPCForm()
			return m, nil

		case "e", "E":
			if len(m.rpcURLs) > 0 {
				m.settingsMode = "edit"
				m.createEditRPCForm(m.selectedRPCIdx)
			}
			return m, nil

		case "d", "delete", "backspace":
			if len(m.rpcURLs) > 0 && m.selectedRPCIdx < len(m.rpcURLs) {
				m.showRPCDeleteDialog = true
				m.deleteRPCDialogYesSelected = true
				m.deleteRPCDialogIdx = m.selectedRPCIdx
				name := strings.TrimSpace(m.rpcURLs[m.selectedRPCIdx].Name)
				if name == "" {
					name = m.rpcURLs[m.selectedRPCIdx].URL
				}
				m.deleteRPCDialogName = name
			}
			return m, nil

		case "up", "k":
			if m.selectedRPCIdx > 0 {
				m.selectedRPCIdx--
			}
			return m, nil

		case "down", "j":
			if m.selectedRPCIdx < len(m.rpcURLs)-1 {
				m.selectedRPCIdx++
			}
			return m, nil

		case "enter", " ":
			// Set as active
			if len(m.rpcURLs) > 0 && m.selectedRPCIdx < len(m.rpcURLs) {
				for i := range m.rpcURLs {
					m.rpcURLs[i].Active = i == m.selectedRPCIdx
				}
				m.saveConfig()
				m.addLog("info", fmt.Sprintf("Switching to `%s`", m.rpcURLs[m.selectedRPCIdx].Name))
				return m, m.reconnect(m.rpcURLs[m.selectedRPCIdx].URL)
			}
			return m, nil
		}
	}

	return m, nil
}

// toggleLogger switches the log panel on or off and saves the choice
func (m *model) toggleLogger() tea.Cmd {
	m.logEnabled = !m.logEnabled
	m.saveConfig()
	if m.logEnabled {
		if m.w > 0 {
			m.logViewport.Width = m.w - 6
		}
		m.logReady = false
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	// Clear logs and de-initialize when disabling
	if m.logBuffer != nil {
		m.logBuffer.Reset()
	}
	m.logReady = false
	m.logLen = 0
	return nil
}

// refreshHomeForm rebuilds the menu when it is showing so the connect
// label follows the account
func (m *model) refreshHomeForm() *huh.Form {
	if m.activePage != config.PageHome {
		return m.homeForm
	}
	return home.CreateForm(m.state.Connected())
}
