// Package postgresengine stores the circulation event log in PostgreSQL.
//
// Queries and conditional appends are rendered with goqu and executed through one of three
// adapters (pgxpool, database/sql with lib/pq, sqlx). Appends are serialized per table by a
// transaction-scoped advisory lock, so the "max sequence number under the filter still equals the
// expected one" check and the INSERT behave as one atomic commit.
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithTableName("circulation_events"))
//	_ = store.CreateSchema(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvents...)
package postgresengine
