package postgresengine

import (
	"context"
	"errors"
	"fmt"
)

var ErrCreatingSchemaFailed = errors.New("creating the events table failed")

const schemaTemplate = `CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[1]s_payload_idx ON %[1]s USING GIN (payload jsonb_path_ops);`

// SchemaDDL returns the DDL for an events table with the given name.
func SchemaDDL(tableName string) string {
	return fmt.Sprintf(schemaTemplate, tableName)
}

// CreateSchema creates the events table and its indexes if they do not exist yet.
func (es EventStore) CreateSchema(ctx context.Context) error {
	if _, err := es.db.Exec(ctx, SchemaDDL(es.eventTableName)); err != nil {
		return errors.Join(ErrCreatingSchemaFailed, err)
	}

	return nil
}
