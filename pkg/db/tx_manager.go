package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager — контракт для хранилищ: колбэк выполняется внутри
// транзакции на мастере, коммит и откат на стороне менеджера.
type TxManager interface {
	RunMaster(ctx context.Context, fn func(ctxTx context.Context, tx pgx.Tx) error) error
}
