package postgresengine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/postgresengine/internal/adapters"
)

func Test_BuildSelectQuery_RendersEventTypesAndPredicates(t *testing.T) {
	// arrange
	es := givenEventStoreWithAdapter(t, &fakeAdapter{})
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("LoanStarted", "LoanReturned").
		AndAnyPredicateOf(eventstore.P("BookID", "book-1"), eventstore.P("MemberID", "member-1")).
		Finalize()

	// act
	sqlQuery, err := es.buildSelectQuery(filter)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `FROM "circulation_events"`)
	assert.Contains(t, sqlQuery, `"event_type" IN ('LoanReturned', 'LoanStarted')`)
	assert.Contains(t, sqlQuery, `payload @> '{"BookID":"book-1"}'::jsonb`)
	assert.Contains(t, sqlQuery, `payload @> '{"MemberID":"member-1"}'::jsonb`)
	assert.Contains(t, sqlQuery, " OR ")
	assert.Contains(t, sqlQuery, `ORDER BY "sequence_number" ASC`)
}

func Test_BuildSelectQuery_EmptyFilterHasNoWhereClause(t *testing.T) {
	// arrange
	es := givenEventStoreWithAdapter(t, &fakeAdapter{})

	// act
	sqlQuery, err := es.buildSelectQuery(eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "WHERE")
}

func Test_BuildSelectQuery_EscapesPredicateValues(t *testing.T) {
	// arrange
	es := givenEventStoreWithAdapter(t, &fakeAdapter{})
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("Title", "O'Reilly")).
		Finalize()

	// act
	sqlQuery, err := es.buildSelectQuery(filter)

	// assert
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `'{"Title":"O''Reilly"}'::jsonb`)
}

func Test_BuildInsertQuery_GuardsOnExpectedMaxSequence(t *testing.T) {
	// arrange
	es := givenEventStoreWithAdapter(t, &fakeAdapter{})
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("LoanStarted").
		AndAnyPredicateOf(eventstore.P("BookID", "book-1")).
		Finalize()

	// act
	sqlQuery, err := es.buildInsertQuery(givenStorableEvents(t, 2), filter, 7)

	// assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sqlQuery, "WITH "), sqlQuery)
	assert.Contains(t, sqlQuery, `INSERT INTO "circulation_events"`)
	assert.Contains(t, sqlQuery, `MAX("sequence_number")`)
	assert.Contains(t, sqlQuery, "UNION ALL")
	assert.Contains(t, sqlQuery, `COALESCE("max_seq", 0) = 7`)
	assert.Contains(t, sqlQuery, `payload @> '{"BookID":"book-1"}'::jsonb`)
}

func Test_Append_ReturnsConcurrencyConflict_WhenNotAllRowsInserted(t *testing.T) {
	// arrange
	db := &fakeAdapter{rowsAffected: 0}
	es := givenEventStoreWithAdapter(t, db)

	// act
	err := es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 3, givenStorableEvents(t, 2)...)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	require.Len(t, db.lockStatements, 1)
	assert.Equal(t, "SELECT pg_advisory_xact_lock(hashtext('circulation_events'))", db.lockStatements[0])
}

func Test_Append_Succeeds_WhenAllRowsInserted(t *testing.T) {
	// arrange
	db := &fakeAdapter{rowsAffected: 2}
	es := givenEventStoreWithAdapter(t, db)

	// act
	err := es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0, givenStorableEvents(t, 2)...)

	// assert
	assert.NoError(t, err)
}

func Test_Append_RejectsEmptyEventList(t *testing.T) {
	// arrange
	es := givenEventStoreWithAdapter(t, &fakeAdapter{})

	// act
	err := es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrNoEventsToAppend)
}

func Test_Append_WrapsDatabaseErrors(t *testing.T) {
	// arrange
	dbErr := errors.New("connection reset")
	es := givenEventStoreWithAdapter(t, &fakeAdapter{execErr: dbErr})

	// act
	err := es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0, givenStorableEvents(t, 1)...)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrAppendingEventFailed)
	assert.ErrorIs(t, err, dbErr)
}

func Test_Query_ReturnsEventsAndLastSequenceNumber(t *testing.T) {
	// arrange
	occurredAt := time.Unix(0, 0).UTC()
	db := &fakeAdapter{rows: [][]any{
		{"BookAddedToCirculation", occurredAt, []byte(`{"BookID":"b"}`), []byte(`{}`), uint(4)},
		{"LoanStarted", occurredAt, []byte(`{"BookID":"b"}`), []byte(`{}`), uint(9)},
	}}
	es := givenEventStoreWithAdapter(t, db)

	// act
	events, maxSeq, err := es.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())

	// assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "LoanStarted", events[1].EventType)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(9), maxSeq)
}

func Test_WithTableName_RejectsInvalidIdentifiers(t *testing.T) {
	_, err := newEventStore(&fakeAdapter{}, WithTableName("events; DROP TABLE x"))
	assert.ErrorIs(t, err, ErrInvalidTableName)

	_, err = newEventStore(&fakeAdapter{}, WithTableName(""))
	assert.ErrorIs(t, err, eventstore.ErrEmptyTableNameSupplied)
}

func Test_SchemaDDL_UsesTableName(t *testing.T) {
	ddl := SchemaDDL("circulation_events")

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS circulation_events")
	assert.Contains(t, ddl, "circulation_events_payload_idx")
}

func givenEventStoreWithAdapter(t *testing.T, db adapters.DBAdapter) EventStore {
	t.Helper()

	es, err := newEventStore(db, WithTableName("circulation_events"))
	require.NoError(t, err)

	return es
}

func givenStorableEvents(t *testing.T, count int) eventstore.StorableEvents {
	t.Helper()

	events := make(eventstore.StorableEvents, 0, count)
	for range count {
		event, err := eventstore.BuildStorableEventWithEmptyMetadata("LoanStarted", time.Unix(0, 0), []byte(`{"BookID":"book-1"}`))
		require.NoError(t, err)
		events = append(events, event)
	}

	return events
}

type fakeAdapter struct {
	rows           [][]any
	rowsAffected   int64
	execErr        error
	lockStatements []string
}

func (f *fakeAdapter) Query(_ context.Context, _ string) (adapters.DBRows, error) {
	return &fakeRows{rows: f.rows, index: -1}, nil
}

func (f *fakeAdapter) Exec(_ context.Context, _ string) (adapters.DBResult, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}

	return fakeResult(f.rowsAffected), nil
}

func (f *fakeAdapter) ExecLocked(ctx context.Context, lockStmt string, query string) (adapters.DBResult, error) {
	f.lockStatements = append(f.lockStatements, lockStmt)

	return f.Exec(ctx, query)
}

type fakeResult int64

func (r fakeResult) RowsAffected() (int64, error) {
	return int64(r), nil
}

type fakeRows struct {
	rows  [][]any
	index int
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.index]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*time.Time) = row[1].(time.Time)
	*dest[2].(*[]byte) = row[2].([]byte)
	*dest[3].(*[]byte) = row[3].([]byte)
	*dest[4].(*eventstore.MaxSequenceNumberUint) = row[4].(uint)

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	return nil
}
