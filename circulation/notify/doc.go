// Package notify provides the Notifier implementations the coordinator dispatches member notifications to.
//
// AMQPPublisher publishes to a topic exchange, LogNotifier writes structured log records and Noop drops everything.
// Dispatch happens after the commit, an error here is logged by the coordinator and never undoes state.
package notify
