// Package service assembles a running circulation service from a config.Config:
// event store engine, policy store, notifier, observability and the API handlers.
package service
