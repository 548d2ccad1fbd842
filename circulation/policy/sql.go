package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const tableName = "library_policies"

var (
	ErrUnsupportedDriver = errors.New("unsupported policy store driver")
	ErrQueryingPolicy    = errors.New("querying library policy failed")
	ErrSavingPolicy      = errors.New("saving library policy failed")
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
	library_id           TEXT PRIMARY KEY,
	loan_duration_days   INTEGER NOT NULL,
	fine_per_day_cents   BIGINT NOT NULL,
	max_books_per_member INTEGER NOT NULL,
	hold_window_days     INTEGER NOT NULL
)`

type policyRow struct {
	LibraryID         string `db:"library_id"`
	LoanDurationDays  int    `db:"loan_duration_days"`
	FinePerDayCents   int64  `db:"fine_per_day_cents"`
	MaxBooksPerMember int    `db:"max_books_per_member"`
	HoldWindowDays    int    `db:"hold_window_days"`
}

func (r policyRow) toPolicy() core.LibraryPolicy {
	return core.LibraryPolicy{
		LibraryID:         r.LibraryID,
		LoanDurationDays:  r.LoanDurationDays,
		FinePerDay:        core.Money(r.FinePerDayCents),
		MaxBooksPerMember: r.MaxBooksPerMember,
		HoldWindowDays:    r.HoldWindowDays,
	}
}

// SQLStore reads policies from the library_policies table.
type SQLStore struct {
	db       *sqlx.DB
	fallback *core.LibraryPolicy
}

// OpenSQLStore connects with sqlx to a postgres or sqlite3 database.
func OpenSQLStore(driver string, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	return NewSQLStore(db), nil
}

// NewSQLStore wraps an existing connection.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// WithFallback makes the store answer unknown libraries with a copy of fallback.
func (s *SQLStore) WithFallback(fallback core.LibraryPolicy) *SQLStore {
	s.fallback = &fallback

	return s
}

// Migrate creates the policy table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create %s: %w", tableName, err)
	}

	return nil
}

// PolicyFor returns the policy of the library, the fallback, or core.ErrNotFound.
func (s *SQLStore) PolicyFor(ctx context.Context, libraryID core.LibraryIDString) (core.LibraryPolicy, error) {
	var row policyRow

	query := s.db.Rebind(`SELECT library_id, loan_duration_days, fine_per_day_cents, max_books_per_member, hold_window_days
		FROM ` + tableName + ` WHERE library_id = ?`)

	err := s.db.GetContext(ctx, &row, query, libraryID)
	if errors.Is(err, sql.ErrNoRows) {
		if s.fallback != nil {
			p := *s.fallback
			p.LibraryID = libraryID

			return p, nil
		}

		return core.LibraryPolicy{}, fmt.Errorf("%w: policy of library %s", core.ErrNotFound, libraryID)
	}

	if err != nil {
		return core.LibraryPolicy{}, errors.Join(ErrQueryingPolicy, err)
	}

	return row.toPolicy(), nil
}

// Save inserts or replaces the policy of a library. It is an administrative operation, the engine never calls it.
func (s *SQLStore) Save(ctx context.Context, p core.LibraryPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := s.db.Rebind(`INSERT INTO ` + tableName + `
		(library_id, loan_duration_days, fine_per_day_cents, max_books_per_member, hold_window_days)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (library_id) DO UPDATE SET
			loan_duration_days = excluded.loan_duration_days,
			fine_per_day_cents = excluded.fine_per_day_cents,
			max_books_per_member = excluded.max_books_per_member,
			hold_window_days = excluded.hold_window_days`)

	_, err := s.db.ExecContext(ctx, query,
		p.LibraryID, p.LoanDurationDays, int64(p.FinePerDay), p.MaxBooksPerMember, p.HoldWindowDays)
	if err != nil {
		return errors.Join(ErrSavingPolicy, err)
	}

	return nil
}

// List returns all stored policies ordered by library id.
func (s *SQLStore) List(ctx context.Context) ([]core.LibraryPolicy, error) {
	var rows []policyRow

	err := s.db.SelectContext(ctx, &rows, `SELECT library_id, loan_duration_days, fine_per_day_cents, max_books_per_member, hold_window_days
		FROM `+tableName+` ORDER BY library_id`)
	if err != nil {
		return nil, errors.Join(ErrQueryingPolicy, err)
	}

	policies := make([]core.LibraryPolicy, 0, len(rows))
	for _, row := range rows {
		policies = append(policies, row.toPolicy())
	}

	return policies, nil
}

// Close closes the connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
