// Package tr пробрасывает открытую транзакцию pgx через context.Context,
// чтобы репозитории записи могли работать в рамках одной транзакции юзкейса.
package tr

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/trivshopy/catalog-backend/pkg/e"
)

type txKey struct{}

// CtxWithTx кладёт транзакцию в контекст.
func CtxWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx достаёт транзакцию из контекста. Если её там нет,
// значит метод вызван вне транзакционной обёртки.
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
