package transfer

import (
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Form field names accepted by SetField.
const (
	FieldAddressTo = "addressTo"
	FieldAmount    = "amount"
	FieldKeyword   = "keyword"
	FieldMessage   = "message"
)

// FormData holds the send form as typed by the user.
type FormData struct {
	AddressTo string `validate:"required,eth_addr"`
	Amount    string `validate:"required,ether_amount"`
	Keyword   string
	Message   string
}

// Transaction is a display record derived from the contract history.
type Transaction struct {
	AddressTo   common.Address
	AddressFrom common.Address
	Timestamp   time.Time
	Message     string
	Keyword     string
	AmountWei   *big.Int
	Amount      float64
}

// State is the client-side view of the wallet and contract.
type State struct {
	Account          common.Address
	Form             FormData
	Loading          bool
	Transactions     []Transaction
	TransactionCount uint64
	// CountKnown is false until a count has been loaded from the store or
	// read from the contract.
	CountKnown bool
}

// Connected reports whether an account has been granted.
func (s State) Connected() bool {
	return s.Account != (common.Address{})
}

func (s State) clone() State {
	s.Transactions = slices.Clone(s.Transactions)
	return s
}

func (f *FormData) set(name, value string) error {
	switch name {
	case FieldAddressTo:
		f.AddressTo = value
	case FieldAmount:
		f.Amount = value
	case FieldKeyword:
		f.Keyword = value
	case FieldMessage:
		f.Message = value
	default:
		return fmt.Errorf("unknown form field %q", name)
	}
	return nil
}
