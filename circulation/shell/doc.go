// Package shell is the imperative shell around the pure circulation core.
//
// It maps domain events to and from storable events, retries on stale state,
// and owns the Coordinator: the only path through which circulation state changes.
// Every mutation is an OperationSet which the Coordinator checks against the
// ledger invariants and commits with a single conditional append.
//
// In Hexagonal Architecture terminology, this would be the 'application' layer.
package shell
