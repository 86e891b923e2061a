package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTransaction struct {
	tx     *gorm.DB
	nested bool
	done   bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of ctx if any, otherwise the database.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !t.done {
		return t.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB).WithContext(ctx)
}

// WithDBTransaction begins a transaction and makes DB(ctx) return it. Calling
// it again inside a running transaction joins the outer one; the inner commit
// and rollback are then no-ops and the outer caller decides the outcome.
func WithDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction); ok && !t.done {
		return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: t.tx, nested: true})
	}

	tx := ctx.Value(dbKey{}).(*gorm.DB).WithContext(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: tx})
}

// WithCommitDBTransaction commits the transaction started by WithDBTransaction.
func WithCommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.done {
		return nil
	}

	t.done = true
	if t.nested {
		return nil
	}

	return t.tx.Commit().Error
}

// WithRollbackDBTransaction rollbacks the transaction if it was not committed
// yet. It is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.done {
		return
	}

	t.done = true
	if !t.nested {
		t.tx.Rollback()
	}
}
