package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/internal/instrument"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/postgresengine/internal/adapters"
)

var ErrInvalidTableName = errors.New("table name must be a plain sql identifier")

const (
	engineName            = "postgres"
	defaultEventTableName = "events"

	errTypeBuildQuery   = "failed to build query"
	errTypeDBQuery      = "database query execution failed"
	errTypeScanRow      = "failed to scan database row"
	errTypeBuildEvent   = "failed to build storable event from database row"
	errTypeDBExec       = "database execution failed during event append"
	errTypeRowsAffected = "failed to get rows affected count"
	logMsgCloseRows     = "failed to close database rows"

	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	containsJsonb     = colPayload + " @> ?::jsonb"
	advisoryLock      = "SELECT pg_advisory_xact_lock(hashtext('%s'))"
)

type sqlQueryString = string

// EventStore is the PostgreSQL engine.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       instrument.Observer
}

type queryResultRow struct {
	eventType         string
	payload           []byte
	metadata          []byte
	occurredAt        time.Time
	maxSequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolWithReplica sends reads marked with eventstore.WithEventualConsistency to replica.
func NewEventStoreFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil || replica == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB, usually opened with the lib/pq driver.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		observer:       instrument.Observer{Engine: engineName},
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// Query returns the events matching filter in sequence order and the
// MaxSequenceNumberUint of this "dynamic event stream" at the time of the query.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.StartQuery(ctx)

	sqlQuery, err := es.buildSelectQuery(filter)
	if err != nil {
		op.Failed(errTypeBuildQuery, err)
		return nil, 0, err
	}

	start := time.Now()
	rows, err := es.db.Query(ctx, sqlQuery)
	es.observer.LogSQL(ctx, instrument.OperationQuery, sqlQuery, time.Since(start))

	if err != nil {
		op.Failed(errTypeDBQuery, err)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}
	defer es.closeRows(ctx, rows)

	stream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)
	row := queryResultRow{}

	for rows.Next() {
		if scanErr := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata, &row.maxSequenceNumber); scanErr != nil {
			op.Failed(errTypeScanRow, scanErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		event, buildErr := eventstore.BuildStorableEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if buildErr != nil {
			op.Failed(errTypeBuildEvent, buildErr)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		stream = append(stream, event)
		maxSequenceNumber = row.maxSequenceNumber
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		op.Failed(errTypeScanRow, rowsErr)
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowsErr)
	}

	op.Succeeded(len(stream), maxSequenceNumber)

	return stream, maxSequenceNumber, nil
}

// Append writes all events in one statement, guarded by the expected MaxSequenceNumberUint of the
// stream selected by filter. Use the same filter as for the Query the decision was based on.
//
// If another writer appended a matching event in the meantime, no row is written and
// eventstore.ErrConcurrencyConflict is returned.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	ctx, op := es.observer.StartAppend(ctx, len(events), expectedMaxSequenceNumber)

	if len(events) == 0 {
		op.Failed(errTypeBuildQuery, eventstore.ErrNoEventsToAppend)
		return eventstore.ErrNoEventsToAppend
	}

	sqlQuery, err := es.buildInsertQuery(events, filter, expectedMaxSequenceNumber)
	if err != nil {
		op.Failed(errTypeBuildQuery, err)
		return err
	}

	start := time.Now()
	result, err := es.db.ExecLocked(ctx, es.lockStatement(), sqlQuery)
	es.observer.LogSQL(ctx, instrument.OperationAppend, sqlQuery, time.Since(start))

	if err != nil {
		op.Failed(errTypeDBExec, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		op.Failed(errTypeRowsAffected, err)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, err)
	}

	if rowsAffected < int64(len(events)) {
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	op.Succeeded(len(events), expectedMaxSequenceNumber+eventstore.MaxSequenceNumberUint(len(events)))

	return nil
}

func (es EventStore) lockStatement() string {
	return fmt.Sprintf(advisoryLock, es.eventTableName)
}

func (es EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.observer.Warn(ctx, logMsgCloseRows, instrument.AttrError, closeErr.Error())
	}
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, err := es.addWhereClause(filter, selectStmt)
	if err != nil {
		return "", err
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildInsertQuery renders
//
//	WITH context AS (SELECT MAX(sequence_number) AS max_seq FROM events WHERE <filter>),
//	     vals AS (SELECT ... UNION ALL SELECT ...)
//	INSERT INTO events (...) SELECT vals.* FROM context, vals WHERE COALESCE(max_seq, 0) = <expected>
func (es EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt, err := es.addWhereClause(filter, cteStmt)
	if err != nil {
		return "", err
	}

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		row := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt.UTC()).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = row
			continue
		}

		valuesStmt = valuesStmt.UnionAll(row)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.T(cteVals).Col(colEventType),
					goqu.T(cteVals).Col(colOccurredAt),
					goqu.T(cteVals).Col(colPayload),
					goqu.T(cteVals).Col(colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if filter.IsEmpty() {
		return selectStmt, nil
	}

	itemExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		parts := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			parts = append(parts, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))

			for _, predicate := range item.Predicates() {
				containment, err := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
				if err != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
				}

				predicateExpressions = append(predicateExpressions, goqu.L(containsJsonb, string(containment)))
			}

			if item.AllPredicatesMustMatch() {
				parts = append(parts, goqu.And(predicateExpressions...))
			} else {
				parts = append(parts, goqu.Or(predicateExpressions...))
			}
		}

		itemExpressions = append(itemExpressions, goqu.And(parts...))
	}

	return selectStmt.Where(goqu.Or(itemExpressions...)), nil
}
