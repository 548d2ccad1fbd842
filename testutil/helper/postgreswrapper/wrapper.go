package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/config"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/postgresengine"
)

const (
	// EnvDSN selects the database of the live Postgres tests. Without it they are skipped.
	EnvDSN = "CIRCULATION_TEST_POSTGRES_DSN"

	// EnvAdapter selects the database adapter: pgx.pool (default), sql.db or sqlx.db.
	EnvAdapter = "CIRCULATION_TEST_POSTGRES_ADAPTER"

	AdapterPGXPool = "pgx.pool"
	AdapterSQLDB   = "sql.db"
	AdapterSQLX    = "sqlx.db"
)

// Wrapper is an event store on a freshly created table together with the connection it runs on.
type Wrapper interface {
	EventStore() postgresengine.EventStore
	TableName() string
	exec(ctx context.Context, query string) error
	close()
}

// PGXPoolWrapper wraps an event store on a pgx pool.
type PGXPoolWrapper struct {
	pool      *pgxpool.Pool
	store     postgresengine.EventStore
	tableName string
}

func (w *PGXPoolWrapper) EventStore() postgresengine.EventStore { return w.store }
func (w *PGXPoolWrapper) TableName() string                     { return w.tableName }

func (w *PGXPoolWrapper) exec(ctx context.Context, query string) error {
	_, err := w.pool.Exec(ctx, query)
	return err
}

func (w *PGXPoolWrapper) close() { w.pool.Close() }

// SQLDBWrapper wraps an event store on database/sql.
type SQLDBWrapper struct {
	db        *sql.DB
	store     postgresengine.EventStore
	tableName string
}

func (w *SQLDBWrapper) EventStore() postgresengine.EventStore { return w.store }
func (w *SQLDBWrapper) TableName() string                     { return w.tableName }

func (w *SQLDBWrapper) exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLDBWrapper) close() { _ = w.db.Close() }

// SQLXWrapper wraps an event store on sqlx.
type SQLXWrapper struct {
	db        *sqlx.DB
	store     postgresengine.EventStore
	tableName string
}

func (w *SQLXWrapper) EventStore() postgresengine.EventStore { return w.store }
func (w *SQLXWrapper) TableName() string                     { return w.tableName }

func (w *SQLXWrapper) exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLXWrapper) close() { _ = w.db.Close() }

// GivenWrapper connects to the database named by EnvDSN with the adapter named by EnvAdapter
// and creates an events table only this test uses. The table is dropped on cleanup.
// The test is skipped if EnvDSN is not set.
func GivenWrapper(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDSN)
	}

	ctx := context.Background()
	tableName := UniqueTableName()
	storeConfig := config.StoreConfig{DSN: dsn, MaxConns: 4, MinConns: 1}
	options = append(options, postgresengine.WithTableName(tableName))

	var wrapper Wrapper

	switch adapter := os.Getenv(EnvAdapter); adapter {
	case "", AdapterPGXPool:
		pool, err := config.OpenPGXPool(ctx, storeConfig)
		require.NoError(t, err, "error connecting to DB pool in test setup")

		store, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating event store in test setup")

		wrapper = &PGXPoolWrapper{pool: pool, store: store, tableName: tableName}

	case AdapterSQLDB:
		db, err := config.OpenSQLDB(ctx, storeConfig)
		require.NoError(t, err, "error connecting to DB in test setup")

		store, err := postgresengine.NewEventStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error creating event store in test setup")

		wrapper = &SQLDBWrapper{db: db, store: store, tableName: tableName}

	case AdapterSQLX:
		db, err := config.OpenSQLX(ctx, storeConfig)
		require.NoError(t, err, "error connecting to DB in test setup")

		store, err := postgresengine.NewEventStoreFromSQLX(db, options...)
		require.NoError(t, err, "error creating event store in test setup")

		wrapper = &SQLXWrapper{db: db, store: store, tableName: tableName}

	default:
		t.Fatalf("unsupported %s: %s", EnvAdapter, adapter)
	}

	t.Cleanup(func() {
		err := wrapper.exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName))
		if err != nil {
			t.Logf("dropping %s: %v", tableName, err)
		}

		wrapper.close()
	})

	require.NoError(t, wrapper.EventStore().CreateSchema(ctx), "error creating events table in test setup")

	return wrapper
}

// UniqueTableName returns a valid table name no other test uses.
func UniqueTableName() string {
	return "events_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
