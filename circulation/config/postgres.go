package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for database/sql and sqlx
)

const (
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
)

// PGXPoolConfig creates a pgxpool.Config from the store config.
func PGXPoolConfig(c StoreConfig) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(c.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing store dsn: %w", err)
	}

	dbConfig.MaxConns = c.MaxConns
	dbConfig.MinConns = c.MinConns
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool connects a pgx pool.
func OpenPGXPool(ctx context.Context, c StoreConfig) (*pgxpool.Pool, error) {
	dbConfig, err := PGXPoolConfig(c)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting pgx pool: %w", err)
	}

	return pool, nil
}

// OpenSQLDB connects with database/sql and the lib/pq driver and pings the database.
func OpenSQLDB(ctx context.Context, c StoreConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening sql db: %w", err)
	}

	configureSQLDB(db, c)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sql db: %w", err)
	}

	return db, nil
}

// OpenSQLX connects with sqlx and pings the database.
func OpenSQLX(ctx context.Context, c StoreConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlx db: %w", err)
	}

	configureSQLDB(db.DB, c)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlx db: %w", err)
	}

	return db, nil
}

func configureSQLDB(db *sql.DB, c StoreConfig) {
	db.SetMaxOpenConns(int(c.MaxConns))
	db.SetMaxIdleConns(int(c.MinConns))
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
