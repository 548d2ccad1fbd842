// Package submitissuerequest implements the Submit Issue Request use case.
//
// A member asks for a copy of a book. The request starts Pending and waits for a staff decision.
// Its consistency boundary is the book plus the loans of the member, so the loan limit
// is checked against the same state the commit is conditioned on.
package submitissuerequest
