package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. The concrete type is infra-defined
// (pgx.Tx for Postgres); repositories accept nil for the non-transactional
// path.
type Tx interface{}

// NoTX marks a deliberately non-transactional repository call.
var NoTX Tx

// TransactionManager executes fn within a database transaction, passing the
// transaction handle through tx. It exists so use cases can express the
// read-guard-compute-write cycle without leaking driver types: the guard is
// re-evaluated against rows read inside the transaction, which is what makes
// duplicate claims and double awards no-op instead of double-crediting.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
	// LockUser serializes transactions racing on the same user via a
	// per-user advisory xact lock. Must be called inside WithTx.
	LockUser(ctx context.Context, tx Tx, userID string) error
}
