// Package decideissuerequest implements the Approve or Reject Issue Request use case.
//
// Staff decide on a Pending request. Approval needs a copy the member could take right now:
// either a free copy or the member's own hold. If there is none the approval fails with
// ErrOutOfStock, the request stays Pending and the member is put into the reservation queue
// of the book in the same operation set.
package decideissuerequest
