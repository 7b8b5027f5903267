package config

import (
	"math/big"
	"time"
)

// Page identifies a top-level screen of the TUI
type Page int

const (
	PageHome Page = iota
	PageTransactions
	PageSend
	PageDetails
	PageSettings
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "Home"
	case PageTransactions:
		return "Transactions"
	case PageSend:
		return "Send"
	case PageDetails:
		return "Account"
	case PageSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// ClickableArea is a screen rectangle mapped to an action
type ClickableArea struct {
	X, Y          int
	Width, Height int
	Action        string
	Index         int
}

// Contains reports whether the cell x, y lies inside the area
func (a ClickableArea) Contains(x, y int) bool {
	return x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height
}

// WalletDetails is the balance view of the connected account
type WalletDetails struct {
	Address    string
	EthWei     *big.Int
	LoadedAt   time.Time
	ErrMessage string
}
