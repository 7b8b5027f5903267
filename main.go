package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"krypt-tui/app"
	"krypt-tui/cli"
	"krypt-tui/config"
	"krypt-tui/transfer"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- MAIN --------------------

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx, os.Args, cli.Options{UI: runTUI}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runTUI starts the interactive interface. The log goes to the in-app
// panel instead of the terminal.
func runTUI(ctx context.Context, cfg config.Config, configPath string) error {
	buf := &logBuffer{}
	logger := newPanelLogger(buf, cfg.LogLevel)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	m := newModel(a, configPath, buf)
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	// Send blocks until Update runs, and Update itself changes the state
	a.Service.OnChange(func(transfer.State) {
		go p.Send(stateMsg{})
	})

	_, err = p.Run()
	return err
}
