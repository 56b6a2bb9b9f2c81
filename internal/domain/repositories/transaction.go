package repositories

import "context"

// TxFn runs within a transaction carried in ctx.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function inside a database transaction. Used by
// the scene-deletion cascade so the reduced frame set and the updated
// folders document commit together.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
