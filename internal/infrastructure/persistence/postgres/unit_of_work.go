package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Haleralex/fundhub/internal/application/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// SQLSTATE, при которых транзакцию безопасно повторить целиком.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

const defaultTxAttempts = 3

// UnitOfWork открывает транзакцию и кладёт её в context: проект вместе
// с телефонами, соцсетями, командой и записью outbox пишется атомарно.
type UnitOfWork struct {
	db       DB
	opts     pgx.TxOptions
	attempts int
}

// UnitOfWorkOption настраивает UnitOfWork.
type UnitOfWorkOption func(*UnitOfWork)

// WithIsolation задаёт уровень изоляции (по умолчанию READ COMMITTED).
func WithIsolation(level pgx.TxIsoLevel) UnitOfWorkOption {
	return func(u *UnitOfWork) { u.opts.IsoLevel = level }
}

// WithTxAttempts - сколько раз выполнять fn при deadlock/serialization failure.
func WithTxAttempts(n int) UnitOfWorkOption {
	return func(u *UnitOfWork) {
		if n > 0 {
			u.attempts = n
		}
	}
}

func NewUnitOfWork(db DB, opts ...UnitOfWorkOption) *UnitOfWork {
	u := &UnitOfWork{
		db:       db,
		opts:     pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		attempts: defaultTxAttempts,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Execute выполняет fn в транзакции: nil - COMMIT, ошибка или panic - ROLLBACK.
// Вложенный вызов переиспользует транзакцию из ctx, повторов в нём нет.
// fn может быть вызвана повторно, если PostgreSQL отменил транзакцию
// из-за deadlock или конфликта сериализации.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	if hasTx(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= u.attempts; attempt++ {
		err = u.runOnce(ctx, fn)
		if !isRetryableTxError(err) || ctx.Err() != nil {
			return err
		}
	}
	return fmt.Errorf("transaction aborted after %d attempts: %w", u.attempts, err)
}

func (u *UnitOfWork) runOnce(ctx context.Context, fn func(context.Context) error) (err error) {
	tx, err := u.db.BeginTx(ctx, u.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Откат должен дойти до БД, даже если запрос клиента уже отменён
	rollback := func() error { return tx.Rollback(context.WithoutCancel(ctx)) }

	defer func() {
		if p := recover(); p != nil {
			_ = rollback()
			panic(p)
		}
	}()

	if err := fn(injectTx(ctx, tx)); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isRetryableTxError(err error) bool {
	return isPgError(err, pgSerializationFailure) || isPgError(err, pgDeadlockDetected)
}
