package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/juju/errors"
)

// DBTX is the query surface shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// TxBeginner is a DBTX that can open transactions.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrInUse is returned when a delete is blocked by rows that still reference the target.
const ErrInUse = errors.ConstError("resource is still referenced")

// ErrQuantityOutOfRange is returned when a merged cart line no longer fits the quantity column.
const ErrQuantityOutOfRange = errors.ConstError("cart item quantity out of range")

const (
	pgForeignKeyViolation = "23503"
	pgNumericOutOfRange   = "22003"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func isNumericOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgNumericOutOfRange
}

// requireAffected turns an update or delete that matched nothing into a NotFound error.
func requireAffected(tag pgconn.CommandTag, what string, id any) error {
	if tag.RowsAffected() == 0 {
		return errors.NotFoundf("%s %v", what, id)
	}
	return nil
}
