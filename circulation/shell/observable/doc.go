// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The wrappers translate HandlerResult and errors into the status vocabulary of the shell package
// (success, idempotent, rejected, concurrency_conflict, canceled, timeout, error).
package observable
