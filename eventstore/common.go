package eventstore

import (
	"errors"
)

var (
	ErrEmptyTableNameSupplied      = errors.New("empty eventTableName supplied")
	ErrNilDatabaseConnection       = errors.New("database connection must not be nil")
	ErrConcurrencyConflict         = errors.New("concurrency error, no rows were affected")
	ErrNoEventsToAppend            = errors.New("at least one event must be supplied to append")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
)

// MaxSequenceNumberUint is the highest sequence number inside a filtered "dynamic event stream".
// It is zero for an empty stream and acts as the expected version for conditional appends.
type MaxSequenceNumberUint = uint
