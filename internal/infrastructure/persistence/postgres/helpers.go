package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier - общее у pgxpool.Pool и pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB - пул с точки зрения репозиториев. Ему удовлетворяют *pgxpool.Pool
// и pgxmock.PgxPoolIface.
type DB interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type txKey struct{}

func injectTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// extractTx - открытая UnitOfWork транзакция или nil.
func extractTx(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

func hasTx(ctx context.Context) bool {
	return extractTx(ctx) != nil
}

// conn выбирает, куда отправить запрос: в транзакцию из ctx или в пул.
func conn(ctx context.Context, db DB) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return db
}

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Имена unique constraints из migrations/.
const (
	constraintUsersUsername     = "users_username_key"
	constraintUsersEmail        = "users_email_key"
	constraintProjectsName      = "projects_name_key"
	constraintCompaniesNumber   = "companies_country_number_key"
	constraintProjectPhones     = "project_phones_project_number_key"
	constraintProjectSocialLink = "project_social_links_project_link_key"
	constraintFavoritesPK       = "favorites_pkey"
)

// asPgError достаёт *pgconn.PgError из цепочки обёрток.
func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}
	return pgErr, true
}

// isPgError проверяет, является ли ошибка PostgreSQL ошибкой с определённым кодом.
func isPgError(err error, code string) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == code
}

// isUniqueViolation проверяет, является ли ошибка нарушением UNIQUE constraint.
// constraintName - опциональное имя constraint для проверки.
func isUniqueViolation(err error, constraintName string) bool {
	pgErr, ok := asPgError(err)
	if !ok || pgErr.Code != pgUniqueViolation {
		return false
	}
	if constraintName != "" {
		return pgErr.ConstraintName == constraintName
	}
	return true
}

// isForeignKeyViolation проверяет нарушение foreign key constraint.
func isForeignKeyViolation(err error) bool {
	return isPgError(err, pgForeignKeyViolation)
}

// rowScanner - общий интерфейс pgx.Row и pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
