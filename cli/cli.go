package cli

import (
	"context"
	"io"
	"os"

	"krypt-tui/app"
	"krypt-tui/config"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Options wires the CLI to its collaborators. Zero fields get defaults.
type Options struct {
	// Stdout receives command output, Stderr the log.
	Stdout io.Writer
	Stderr io.Writer

	// UI runs the interactive interface for the resolved config.
	UI func(ctx context.Context, cfg config.Config, configPath string) error

	// Open builds the app. Defaults to app.New.
	Open func(ctx context.Context, cfg config.Config, logger *log.Logger) (*app.App, error)

	// Bind attaches the node and contract. Defaults to (*app.App).Connect.
	Bind func(a *app.App) error
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Open == nil {
		o.Open = app.New
	}
	if o.Bind == nil {
		o.Bind = (*app.App).Connect
	}
}

// New returns the root command.
//
// Without a subcommand the interactive interface starts. The subcommands
// run one operation against the configured wallet and node:
//
//   - `connect`: request account access from the wallet.
//   - `accounts`: show the already authorized account.
//   - `send`: transfer ether and record it in the Transactions contract.
//   - `history`: list the recorded transfers.
//   - `count`: show the transaction count.
//   - `gif`: resolve a keyword to a gif URL.
func New(opts Options) *cli.Command {
	opts.defaults()

	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "krypt",
		Description:           "Send ether with a message and a gif keyword, and browse the transfers recorded on chain.",
		Usage:                 "krypt [command] [flags]",
		Writer:                opts.Stdout,
		ErrWriter:             opts.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the JSON config file",
				Value: config.DefaultPath(),
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.String("config")
			cfg, err := config.Resolve(path)
			if err != nil {
				return err
			}
			if opts.UI == nil {
				return cli.ShowAppHelp(c)
			}
			return opts.UI(ctx, cfg, path)
		},
		Commands: []*cli.Command{
			connectCommand(&opts),
			accountsCommand(&opts),
			sendCommand(&opts),
			historyCommand(&opts),
			countCommand(&opts),
			gifCommand(&opts),
		},
	}
}

// Run parses args and executes the matching command.
func Run(ctx context.Context, args []string, opts Options) error {
	return New(opts).Run(ctx, args)
}

// open resolves the config and builds the app. With bind set the node and
// contract are attached as well.
func open(ctx context.Context, c *cli.Command, opts *Options, bind bool) (*app.App, error) {
	cfg, err := config.Resolve(c.String("config"))
	if err != nil {
		return nil, err
	}

	a, err := opts.Open(ctx, cfg, app.NewLogger(opts.Stderr, cfg))
	if err != nil {
		return nil, err
	}

	if bind {
		if err := opts.Bind(a); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}
