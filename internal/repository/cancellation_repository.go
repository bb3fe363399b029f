package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/model"
)

// CancellationRepo reads cancellation records.  Records are written by
// ReservationRepo.Cancel inside the cancellation transaction, so this
// repo only queries; it implements booking.CancellationStore.
type CancellationRepo struct {
    db *sql.DB
}

// NewCancellationRepo returns a CancellationRepo bound to the given database.
func NewCancellationRepo(db *sql.DB) *CancellationRepo { return &CancellationRepo{db: db} }

// ByReservation returns the cancellation record for a reservation.
// Returns booking.ErrNoCancellation when the reservation was never
// cancelled.
func (r *CancellationRepo) ByReservation(ctx context.Context, reservationID uint64) (model.CancellationRecord, error) {
    const q = `SELECT id, reservation_id, reason, staff_ssn, created_at
               FROM cancellations WHERE reservation_id = ?`
    var rec model.CancellationRecord
    var staff sql.NullString
    err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
        &rec.ID, &rec.ReservationID, &rec.Reason, &staff, &rec.CreatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return model.CancellationRecord{}, booking.ErrNoCancellation
    }
    if err != nil {
        return model.CancellationRecord{}, err
    }
    if staff.Valid {
        rec.StaffSSN = staff.String
    }
    return rec, nil
}
