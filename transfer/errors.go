package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWallet is returned by every wallet-dependent operation when no
	// wallet provider is configured. No request is made in that case.
	ErrNoWallet = errors.New("no wallet provider: please install or configure a wallet")

	// ErrNoAccounts is returned when the provider grants access to zero accounts.
	ErrNoAccounts = errors.New("wallet returned no accounts")

	// ErrNotConnected is returned by SendTransaction before an account is known.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrNoContract is returned when no contract binding is available yet.
	ErrNoContract = errors.New("transactions contract not available")

	// ErrSendInProgress is returned when a send is already running.
	ErrSendInProgress = errors.New("a transaction is already being sent")
)

// OpError records a failed wallet or contract operation and its cause.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
