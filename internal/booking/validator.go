package booking

import (
    "context"
    "fmt"
    "time"
)

// OverlapValidator decides whether a new reservation may be created for
// a room and interval.  Two intervals conflict when they genuinely
// intersect: existing.start < newEnd && existing.end > newStart.  A
// booking that ends exactly when another starts is allowed.  Only
// reservations in an active state (booked, checked-in, pending
// approval) count; cancelled and expired rows never block a new
// booking.
type OverlapValidator struct {
    store ReservationStore
}

// NewOverlapValidator returns a validator backed by the given store.
func NewOverlapValidator(store ReservationStore) *OverlapValidator {
    return &OverlapValidator{store: store}
}

// Conflicts reports whether the requested interval collides with an
// existing active reservation for the room on that day.  The check is
// read-only; serialization against concurrent inserts is the caller's
// responsibility (the engine holds the per-room lock around check and
// insert).
func (v *OverlapValidator) Conflicts(ctx context.Context, roomID uint64, day, start, end time.Time) (bool, error) {
    overlap, err := v.store.HasOverlap(ctx, roomID, day, start, end)
    if err != nil {
        return false, fmt.Errorf("overlap check for room %d: %w", roomID, err)
    }
    return overlap, nil
}
