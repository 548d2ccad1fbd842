// Package api exposes the circulation operations over HTTP with fiber.
//
// The caller's identity comes from the X-Actor-ID and X-Actor-Role headers, set by the identity
// provider in front of the service. X-Request-ID becomes the correlation id of all events an
// operation writes. Business errors map onto 4xx status codes, see StatusFor.
package api
