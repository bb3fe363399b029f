// Package booking implements the reservation lifecycle: creation with
// overlap prevention, approval of VIP bookings, cancellation, check-in
// confirmation, the background expiry sweep and the no-show strike
// ledger.  It depends only on narrow store interfaces so the whole
// lifecycle can be exercised against an in-memory store in tests.
package booking

import "errors"

// Domain rule violations are expected outcomes, not failures.  Each
// condition has its own sentinel so handlers can map them to precise
// HTTP responses with errors.Is.  Storage failures are returned as
// wrapped errors and never compare equal to any of these.
var (
    // ErrRoomNotFound is returned when the target room does not exist.
    ErrRoomNotFound = errors.New("room not found")

    // ErrReservationNotFound is returned when no reservation exists
    // with the given identifier.
    ErrReservationNotFound = errors.New("reservation not found")

    // ErrConflict is returned when an active reservation overlaps the
    // requested interval for the same room.
    ErrConflict = errors.New("overlapping reservation exists")

    // ErrBlacklisted is returned when the requester has an active
    // blacklist entry and may not create bookings.
    ErrBlacklisted = errors.New("requester is blacklisted")

    // ErrInvalidState is returned when the reservation's current state
    // does not permit the attempted transition.
    ErrInvalidState = errors.New("invalid reservation state for this operation")

    // ErrNotPending is returned when approval is attempted on a
    // reservation that is not awaiting approval.
    ErrNotPending = errors.New("reservation is not pending approval")

    // ErrAlreadyCancelled is returned when a reservation is cancelled a
    // second time.  The first cancellation's record is left untouched.
    ErrAlreadyCancelled = errors.New("reservation already cancelled")

    // ErrReasonRequired is returned when a cancellation is attempted
    // without a reason text.
    ErrReasonRequired = errors.New("cancellation reason is required")

    // ErrInvalidInterval is returned when the start time is not
    // strictly before the end time.
    ErrInvalidInterval = errors.New("start time must be before end time")

    // ErrNoCancellation is returned when no cancellation record exists
    // for the given reservation.
    ErrNoCancellation = errors.New("no cancellation record for reservation")
)
