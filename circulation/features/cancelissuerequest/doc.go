// Package cancelissuerequest implements the Cancel Issue Request use case.
//
// A member withdraws an issue request that is still Pending or Approved, or staff do it on the member's behalf.
package cancelissuerequest
