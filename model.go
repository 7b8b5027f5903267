package main

import (
	"strings"
	"sync"
	"time"

	"krypt-tui/app"
	"krypt-tui/config"
	"krypt-tui/transfer"
	"krypt-tui/views/home"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- LOG BUFFER --------------------

// logBuffer is written by the logger from command goroutines and read by
// View, so it is guarded.
type logBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func (l *logBuffer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Len()
}

func (l *logBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Reset()
}

// newPanelLogger returns the logger shown in the log panel
func newPanelLogger(buf *logBuffer, level string) *log.Logger {
	logger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(log.InfoLevel)
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Keys:      map[string]lipgloss.Style{},
		Values:    map[string]lipgloss.Style{},
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).SetString("ERROR"),
		},
	})
	return logger
}

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page
	app        *app.App

	// last snapshot of the transfer service
	state transfer.State

	// node connection
	rpcURL        string
	rpcConnected  bool
	rpcConnecting bool
	initialized   bool

	spin spinner.Model

	// account details
	loading bool
	details config.WalletDetails
	showQR  bool

	// transactions page
	selectedTx int

	// send page
	sendForm   *huh.Form
	sending    bool
	sendResult *transfer.SendResult
	sendErr    string

	// gif lookups: gifKeyword is the keyword whose result is shown
	gifKeyword string
	gifURL     string
	gifCache   map[string]string

	// blocking alert when no wallet provider is configured; the startup
	// check raises it once
	showWalletAlert bool
	walletAlerted   bool

	// clipboard feedback
	copiedMsg     string
	copiedMsgTime time.Time

	// settings state
	settingsMode   string // "list", "add", "edit"
	rpcURLs        []config.RPCUrl
	selectedRPCIdx int
	form           *huh.Form
	configPath     string

	// delete confirmation dialog
	showRPCDeleteDialog        bool
	deleteRPCDialogName        string
	deleteRPCDialogIdx         int
	deleteRPCDialogYesSelected bool

	// home form
	homeForm *huh.Form

	// clickable areas for mouse support
	clickableAreas []config.ClickableArea

	// form command to run alongside a non-key message
	pending tea.Cmd

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *logBuffer
	logLen      int
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// -------------------- INIT --------------------

// newModel creates the model around an already built App
func newModel(a *app.App, configPath string, buf *logBuffer) model {
	cfg := a.Config

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(cAccent2)

	vp := viewport.New(0, 20) // resized on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(cText).
		Background(cPanel)

	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(cAccent2)

	m := model{
		activePage:   config.PageHome,
		app:          a,
		state:        a.Service.Snapshot(),
		rpcURL:       cfg.ActiveRPC(),
		spin:         sp,
		showQR:       true,
		gifCache:     make(map[string]string),
		settingsMode: "list",
		rpcURLs:      cfg.RPCURLs,
		configPath:   configPath,
		logEnabled:   cfg.Logger,
		logger:       a.Logger,
		logBuffer:    buf,
		logViewport:  vp,
		logSpinner:   logSpin,
	}
	m.homeForm = home.CreateForm(false)

	return m
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if m.rpcURL != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.rpcURL))
	} else {
		// nothing to wait for: run the checks against the wallet alone
		m.initialized = true
		cmds = append(cmds, initService(m.app.Service))
	}
	return tea.Batch(cmds...)
}

func detailsFor(addr common.Address) config.WalletDetails {
	return config.WalletDetails{Address: addr.Hex()}
}

// saveConfig persists the RPC list and logger flag. The file is re-read so
// values that came from the environment are not written back.
func (m *model) saveConfig() {
	cfg := config.Load(m.configPath)
	cfg.RPCURLs = config.WithoutEnvRPC(m.rpcURLs)
	cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, cfg); err != nil {
		m.addLog("error", "Could not save config", "err", err)
	}
}

// reconnect switches the node to url
func (m *model) reconnect(url string) tea.Cmd {
	if node := m.app.Node(); node != nil && node.Client != nil {
		node.Close()
	}
	m.rpcURL = url
	m.rpcConnected = false
	m.rpcConnecting = true
	return connectRPC(url)
}
