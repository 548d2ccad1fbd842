// Package spies provides recording test doubles for the observability interfaces of the
// eventstore package, a slog.Handler that captures records, and a notification dispatcher spy.
package spies
