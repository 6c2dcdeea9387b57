package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. The concrete type is infra-defined
// (pgx.Tx for Postgres); repositories accept nil for the non-transactional path.
type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside a database transaction and passes the
// handle along so repository calls made from fn share it.
//
//	tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
//		p, err := payments.FindByOrderID(ctx, tx, orderID) // locks the row
//		...
//	})
//
// fn returning an error rolls the transaction back.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
