package db

import "context"

// Transactor opens scoped transactions. Both *Client and DB satisfy it.
type Transactor interface {
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

var _ Transactor = (DB)(nil)
