package main

import (
	"krypt-tui/config"
	"krypt-tui/rpc"
	"krypt-tui/transfer"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
}

// initDoneMsg carries the joined result of the startup checks
type initDoneMsg struct {
	err error
}

// walletConnectedMsg contains the result of an account request
type walletConnectedMsg struct {
	err error
}

// transactionsLoadedMsg contains the result of a history refresh
type transactionsLoadedMsg struct {
	err error
}

// sendDoneMsg contains the result of a send
type sendDoneMsg struct {
	result *transfer.SendResult
	err    error
}

// gifResolvedMsg carries the URL for the keyword it was requested for
type gifResolvedMsg struct {
	keyword string
	url     string
}

// gifDebounceMsg fires after the keyword field has been idle
type gifDebounceMsg struct {
	keyword string
}

// stateMsg signals that the transfer service changed state. Deliveries can
// arrive out of order, so the handler reads the latest snapshot.
type stateMsg struct{}

// detailsLoadedMsg contains account balance details after loading
type detailsLoadedMsg struct {
	d config.WalletDetails
}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
}

// clearClipboardMsg clears the copy feedback
type clearClipboardMsg struct{}
