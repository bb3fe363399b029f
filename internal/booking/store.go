package booking

import (
    "context"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// Transitioner is the conditional state-update half of the reservation
// contract, split out so transaction-scoped views can expose it alone.
type Transitioner interface {
    // Transition conditionally moves a reservation from one of the
    // expected states to the target state and returns the number of
    // rows affected.  Zero means the precondition no longer held
    // (stale state, already transitioned, or not found) and must be
    // treated as a no-op by the caller.  When checkInAt is non-nil the
    // check-in timestamp is recorded as part of the same update.
    Transition(ctx context.Context, id uint64, from []model.ReservationStatus, to model.ReservationStatus, checkInAt *time.Time) (int64, error)
}

// ReservationStore is the persistence contract for reservations.  The
// MySQL implementation lives in internal/repository; tests use an
// in-memory store.  All timestamps are UTC.
type ReservationStore interface {
    Transitioner
    // Create persists a new reservation and assigns a unique random
    // 6-digit identifier to r.ID.  Candidate identifiers that collide
    // with an existing reservation are regenerated; a unique key on
    // the id column acts as the backstop when two callers race on the
    // same candidate.
    Create(ctx context.Context, r *model.Reservation) error

    // ByID loads a reservation.  Returns ErrReservationNotFound when
    // no row exists.
    ByID(ctx context.Context, id uint64) (model.Reservation, error)

    // HasOverlap reports whether any reservation for the room on the
    // given day in an active state satisfies
    // existing.start < end && existing.end > start.  Touching
    // endpoints do not overlap.
    HasOverlap(ctx context.Context, roomID uint64, day, start, end time.Time) (bool, error)

    // Cancel atomically performs the conditional transition to
    // Cancelled and inserts the cancellation record.  Both writes
    // happen in one transaction; if the transition affects zero rows
    // no record is written and zero is returned.
    Cancel(ctx context.Context, id uint64, from []model.ReservationStatus, rec *model.CancellationRecord) (int64, error)

    // ListByRequester returns all reservations made by the employee,
    // most recent first.
    ListByRequester(ctx context.Context, ssn string) ([]model.Reservation, error)

    // ListAll returns every reservation, optionally filtered by room,
    // ordered by booking date descending.  Used by the admin view.
    ListAll(ctx context.Context, roomID *uint64) ([]model.Reservation, error)

    // DueForExpiry returns Booked reservations with no check-in whose
    // start time lies in (after, upTo].  The sweeper calls it with a
    // narrow rolling window so each reservation is returned roughly
    // once.
    DueForExpiry(ctx context.Context, after, upTo time.Time) ([]model.Reservation, error)

    // LockRoom serializes the overlap check and insert for one room
    // across concurrent requests.  It returns a release function that
    // must be called once the creation attempt finishes.
    LockRoom(ctx context.Context, roomID uint64) (func(), error)
}

// RoomStore resolves rooms referenced by booking requests.
type RoomStore interface {
    // ByID returns ErrRoomNotFound when the room does not exist.
    ByID(ctx context.Context, id uint64) (model.Room, error)
}

// CancellationStore reads back cancellation records.  Creation happens
// inside ReservationStore.Cancel so the record and the state change
// commit together.
type CancellationStore interface {
    // ByReservation returns ErrNoCancellation when the reservation was
    // never cancelled.
    ByReservation(ctx context.Context, reservationID uint64) (model.CancellationRecord, error)
}

// EmployeeStore maintains the per-employee strike counters.  The two
// increment paths write to separate columns; see Ledger for why both
// exist.
type EmployeeStore interface {
    // IncrementNoShow adds one to the employee's no-show counter and
    // returns the new value.
    IncrementNoShow(ctx context.Context, ssn string) (uint32, error)

    // IncrementLockCount adds one to the blacklist-escalation counter.
    IncrementLockCount(ctx context.Context, ssn string) error

    // IncrementLateCheckin adds one to the alternate late check-in
    // counter and returns the new value.
    IncrementLateCheckin(ctx context.Context, ssn string) (uint32, error)

    // SetStatus updates the employee's eligibility status.
    SetStatus(ctx context.Context, ssn string, status uint8) error
}

// BlacklistStore maintains blacklist membership.
type BlacklistStore interface {
    Exists(ctx context.Context, ssn string) (bool, error)
    Insert(ctx context.Context, ssn string, at time.Time) error
    Delete(ctx context.Context, ssn string) error
    List(ctx context.Context) ([]BlacklistDetail, error)
}

// BlacklistDetail is a blacklist entry joined with the employee's
// strike counters, returned by the admin blacklist view.
type BlacklistDetail struct {
    ID          uint64    `json:"id"`
    SSN         string    `json:"ssn"`
    FirstName   string    `json:"first_name"`
    LastName    string    `json:"last_name"`
    LockedAt    time.Time `json:"locked_at"`
    NoShowCount uint32    `json:"no_show_count"`
    LockCount   uint32    `json:"lock_count"`
}

// SweepStores is the transaction-scoped view the sweeper writes
// through.  All three stores issue their statements on the same
// underlying transaction.
type SweepStores struct {
    Reservations Transitioner
    Employees    EmployeeStore
    Blacklist    BlacklistStore
}

// Atomic runs fn inside a single storage transaction.  Every write
// issued through the stores handed to fn commits or rolls back as one
// unit, so a reservation can never end up expired without its strike
// recorded or the other way around.  fn returning an error rolls the
// transaction back.
type Atomic interface {
    InTx(ctx context.Context, fn func(SweepStores) error) error
}

// EventSink receives domain events for publication to the message
// broker.  Implementations must be safe to call from request handlers
// and from the sweeper; failures are logged by the implementation and
// never abort the transition that produced the event.
type EventSink interface {
    BookingExpired(ctx context.Context, r model.Reservation) error
    BookingCancelled(ctx context.Context, r model.Reservation, reason string) error
}
