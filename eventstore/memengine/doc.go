// Package memengine is an in-process event store engine with the same conditional append semantics
// as postgresengine. It backs the test suites and `store.driver: memory` deployments.
package memengine
