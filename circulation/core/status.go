package core

import (
	"fmt"
	"slices"
)

// RequestStatus is the closed set of issue request statuses.
type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestApproved  RequestStatus = "Approved"
	RequestRejected  RequestStatus = "Rejected"
	RequestFulfilled RequestStatus = "Fulfilled"
	RequestCancelled RequestStatus = "Cancelled"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:  {RequestApproved, RequestRejected, RequestCancelled},
	RequestApproved: {RequestFulfilled, RequestCancelled},
}

// CanTransitionTo returns ErrInvalidTransition unless next is reachable in one step.
func (s RequestStatus) CanTransitionTo(next RequestStatus) error {
	if slices.Contains(requestTransitions[s], next) {
		return nil
	}

	return fmt.Errorf("%w: issue request %s -> %s", ErrInvalidTransition, s, next)
}

// IsOpen is true for Pending and Approved.
func (s RequestStatus) IsOpen() bool {
	return s == RequestPending || s == RequestApproved
}

// ReservationStatus is the closed set of reservation statuses.
type ReservationStatus string

const (
	ReservationStatusActive         ReservationStatus = "Active"
	ReservationStatusReadyForPickup ReservationStatus = "ReadyForPickup"
	ReservationStatusFulfilled      ReservationStatus = "Fulfilled"
	ReservationStatusExpired        ReservationStatus = "Expired"
	ReservationStatusCancelled      ReservationStatus = "Cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusActive:         {ReservationStatusReadyForPickup, ReservationStatusCancelled},
	ReservationStatusReadyForPickup: {ReservationStatusFulfilled, ReservationStatusExpired, ReservationStatusCancelled},
}

// CanTransitionTo returns ErrInvalidTransition unless next is reachable in one step.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) error {
	if slices.Contains(reservationTransitions[s], next) {
		return nil
	}

	return fmt.Errorf("%w: reservation %s -> %s", ErrInvalidTransition, s, next)
}

// IsOpen is true for Active (queued) and ReadyForPickup (copy held).
func (s ReservationStatus) IsOpen() bool {
	return s == ReservationStatusActive || s == ReservationStatusReadyForPickup
}

// BookState is derived from the copy counts, never stored.
type BookState string

const (
	BookAvailable  BookState = "Available"
	BookReserved   BookState = "Reserved"
	BookCheckedOut BookState = "CheckedOut"
)
