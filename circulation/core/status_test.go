package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

func Test_RequestStatus_TransitionTable(t *testing.T) {
	allowed := map[core.RequestStatus][]core.RequestStatus{
		core.RequestPending:  {core.RequestApproved, core.RequestRejected, core.RequestCancelled},
		core.RequestApproved: {core.RequestFulfilled, core.RequestCancelled},
	}
	all := []core.RequestStatus{
		core.RequestPending, core.RequestApproved, core.RequestRejected, core.RequestFulfilled, core.RequestCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			err := from.CanTransitionTo(to)

			if contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, core.ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func Test_ReservationStatus_TransitionTable(t *testing.T) {
	allowed := map[core.ReservationStatus][]core.ReservationStatus{
		core.ReservationStatusActive:         {core.ReservationStatusReadyForPickup, core.ReservationStatusCancelled},
		core.ReservationStatusReadyForPickup: {core.ReservationStatusFulfilled, core.ReservationStatusExpired, core.ReservationStatusCancelled},
	}
	all := []core.ReservationStatus{
		core.ReservationStatusActive, core.ReservationStatusReadyForPickup, core.ReservationStatusFulfilled,
		core.ReservationStatusExpired, core.ReservationStatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			err := from.CanTransitionTo(to)

			if contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, core.ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func Test_Actor_MayActFor(t *testing.T) {
	assert.True(t, core.Actor{ID: "staff-1", Role: core.RoleStaff}.MayActFor("member-a"))
	assert.True(t, core.Actor{ID: "member-a", Role: core.RoleMember}.MayActFor("member-a"))
	assert.False(t, core.Actor{ID: "member-b", Role: core.RoleMember}.MayActFor("member-a"))
	assert.False(t, core.Actor{Role: core.RoleMember}.MayActFor(""))
}

func contains[T comparable](list []T, item T) bool {
	for _, candidate := range list {
		if candidate == item {
			return true
		}
	}

	return false
}
