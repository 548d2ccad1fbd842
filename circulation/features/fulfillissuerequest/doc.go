// Package fulfillissuerequest implements the Fulfill Issue Request use case.
//
// Staff hand over a copy for an Approved request. The request becomes Fulfilled and a loan starts,
// due after the loan duration of the library. The copy is taken from the member's hold if there is one,
// otherwise from the free copies.
//
// Two fulfillments racing for the last copy read the same boundary; the coordinator lets exactly one
// of them commit and the other fails with core.ErrStaleState.
package fulfillissuerequest
