package adapters

import (
	"context"
	"database/sql"
	"errors"
)

// stdRows wraps sql.Rows for the database/sql and sqlx adapters.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// execLockedStd is shared by the sql and sqlx adapters, both of which sit on *sql.DB.
func execLockedStd(ctx context.Context, db *sql.DB, lockStmt string, query string) (DBResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, lockStmt); err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}
