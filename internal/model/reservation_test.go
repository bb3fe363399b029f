package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestReservationStatusString(t *testing.T) {
    assert.Equal(t, "BOOKED", StatusBooked.String())
    assert.Equal(t, "EXPIRED", StatusExpired.String())
    assert.Equal(t, "CHECKED_IN", StatusCheckedIn.String())
    assert.Equal(t, "PENDING_APPROVAL", StatusPendingApproval.String())
    assert.Equal(t, "CANCELLED", StatusCancelled.String())
    assert.Equal(t, "unknown", ReservationStatus(42).String())
}

func TestReservationStatusTerminal(t *testing.T) {
    assert.False(t, StatusBooked.Terminal())
    assert.False(t, StatusPendingApproval.Terminal())
    assert.True(t, StatusExpired.Terminal())
    assert.True(t, StatusCheckedIn.Terminal())
    assert.True(t, StatusCancelled.Terminal())
}

func TestActiveStatusesExcludeTerminalFreeingStates(t *testing.T) {
    active := ActiveStatuses()
    assert.Contains(t, active, StatusBooked)
    assert.Contains(t, active, StatusCheckedIn)
    assert.Contains(t, active, StatusPendingApproval)
    assert.NotContains(t, active, StatusExpired)
    assert.NotContains(t, active, StatusCancelled)
}
