package model

import "time"

// CancellationRecord stores the reason a reservation was cancelled.
// Exactly one record exists per cancelled reservation and it is
// immutable once written.
//
// Fields:
//  ID            – sequential identifier.
//  ReservationID – the cancelled reservation.
//  Reason        – free-text reason supplied by the caller.
//  StaffSSN      – staff member who performed the cancellation; empty
//                  for self-service cancellations.
//  CreatedAt     – when the cancellation happened.
type CancellationRecord struct {
    ID            uint64    // cancellations.id
    ReservationID uint64    // cancellations.reservation_id
    Reason        string    // cancellations.reason
    StaffSSN      string    // cancellations.staff_ssn (empty when self-service)
    CreatedAt     time.Time // cancellations.created_at
}
