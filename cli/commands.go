package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"krypt-tui/helpers"
	"krypt-tui/transfer"

	"github.com/urfave/cli/v3"
)

// connectCommand requests account access from the wallet.
//
// Usage example:
//
//	krypt connect
func connectCommand(opts *Options) *cli.Command {
	return &cli.Command{
		Name:        "connect",
		Description: "Ask the wallet provider for access to its accounts.",
		Usage:       "Requests account access and prints the granted account.",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := open(ctx, c, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.ConnectWallet(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintln(opts.Stdout, a.Service.Snapshot().Account.Hex())
			return err
		},
	}
}

// accountsCommand prints the account the wallet already authorized.
//
// Usage example:
//
//	krypt accounts
func accountsCommand(opts *Options) *cli.Command {
	return &cli.Command{
		Name:        "accounts",
		Description: "Show the account the wallet provider has already authorized, without prompting.",
		Usage:       "Prints the authorized account, if any.",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := open(ctx, c, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			connected, err := a.Service.CheckIfWalletIsConnected(ctx)
			if err != nil && !connected {
				return err
			}
			if err != nil {
				// the account is known even if the history could not be read
				a.Logger.Warn("history not loaded", "err", err)
			}

			if !connected {
				_, err = fmt.Fprintln(opts.Stdout, "No authorized accounts found")
				return err
			}
			_, err = fmt.Fprintln(opts.Stdout, a.Service.Snapshot().Account.Hex())
			return err
		},
	}
}

// sendCommand transfers ether and records the transfer on the contract.
//
// Usage example:
//
//	krypt send --to 0xABC123... --amount 0.01 --keyword cat --message "thanks"
func sendCommand(opts *Options) *cli.Command {
	return &cli.Command{
		Name:        "send",
		Description: "Send ether to an address and record the transfer with a message and a gif keyword.",
		Usage:       "Sends ether and waits for the record to be mined.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Receiver address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "Amount in ether (e.g., 0.01)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "keyword",
				Usage: "Gif keyword stored with the transfer",
			},
			&cli.StringFlag{
				Name:  "message",
				Usage: "Message stored with the transfer",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := open(ctx, c, opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.ConnectWallet(ctx); err != nil {
				return err
			}
			a.Service.SetForm(transfer.FormData{
				AddressTo: c.String("to"),
				Amount:    c.String("amount"),
				Keyword:   c.String("keyword"),
				Message:   c.String("message"),
			})

			res, err := a.Service.SendTransaction(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(opts.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "transfer\t%s\n", res.TransferHash.Hex())
			fmt.Fprintf(w, "record\t%s\n", res.RecordHash.Hex())
			fmt.Fprintf(w, "count\t%d\n", res.Count)
			return w.Flush()
		},
	}
}

// historyCommand lists every transfer recorded on the contract.
//
// Usage example:
//
//	krypt history
func historyCommand(opts *Options) *cli.Command {
	return &cli.Command{
		Name:        "history",
		Description: "List the transfers recorded in the Transactions contract, oldest first.",
		Usage:       "Prints the recorded transfers.",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := open(ctx, c, opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.GetAllTransactions(ctx); err != nil {
				return err
			}
			return writeHistory(opts.Stdout, a.Service.Snapshot().Transactions)
		},
	}
}

func writeHistory(out io.Writer, txs []transfer.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(out, "No transactions yet")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFROM\tTO\tAMOUNT\tKEYWORD\tMESSAGE")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			helpers.FormatTimestamp(tx.Timestamp),
			tx.AddressFrom.Hex(),
			tx.AddressTo.Hex(),
			transfer.FormatEther(tx.AmountWei),
			tx.Keyword,
			tx.Message,
		)
	}
	return w.Flush()
}

// countCommand reads the transaction count and persists it.
//
// Usage example:
//
//	krypt count
func countCommand(opts *Options) *cli.Command {
	return &cli.Command{
		Name:        "count",
		Description: "Read the number of recorded transfers from the contract and store it locally.",
		Usage:       "Prints the transaction count.",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := open(ctx, c, opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Service.CheckIfTransactionsExist(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintln(opts.Stdout, a.Service.Snapshot().TransactionCount)
			return err
		},
	}
}

// gifCommand resolves a keyword to a gif URL.
//
// Usage example:
//
//	krypt gif "happy cat"
func gifCommand(opts *Options) *cli.Command {
	return &cli.Command{
		Name:        "gif",
		Description: "Resolve a keyword to a gif URL. Failed lookups print the placeholder gif.",
		Usage:       "Prints the gif URL for a keyword.",
		ArgsUsage:   "<keyword>",
		Action: func(ctx context.Context, c *cli.Command) error {
			keyword := c.Args().First()
			if keyword == "" {
				return errors.New("a keyword is required")
			}

			a, err := open(ctx, c, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = fmt.Fprintln(opts.Stdout, a.Gif.Resolve(ctx, keyword))
			return err
		},
	}
}
