// Package config loads the configuration of the circulation service and builds the infrastructure it names.
//
// Configuration is read with viper from a YAML file and CIRCULATION_* environment variables
// (CIRCULATION_STORE_DSN overrides store.dsn). Save writes a file with yaml.v3, the config init command uses it.
//
// The package also contains the factory functions for PostgreSQL connections (pgxpool, database/sql, sqlx),
// the slog logger and the OpenTelemetry tracer provider.
package config
