// Package store persists the last observed on-chain transaction count so
// the client can show it before the node answers.
package store

import "context"

// CountKey is the key the transaction count is stored under, for reads and
// writes alike.
const CountKey = "transactionCount"

// CountStore loads and saves the transaction count.
type CountStore interface {
	// LoadCount returns the stored count. ok is false when nothing has been
	// stored yet.
	LoadCount(ctx context.Context) (count uint64, ok bool, err error)
	SaveCount(ctx context.Context, count uint64) error
}
