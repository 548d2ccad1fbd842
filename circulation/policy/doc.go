// Package policy provides library policy stores: a static store fed from configuration,
// and a SQL store (PostgreSQL via lib/pq or SQLite via go-sqlite3) accessed through sqlx.
package policy
