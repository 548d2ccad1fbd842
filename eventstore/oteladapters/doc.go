// Package oteladapters implements the eventstore observability interfaces on top of OpenTelemetry.
//
// The same collectors are handed to the circulation command and query handlers, so engine spans
// and handler spans end up in one trace.
package oteladapters
