package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "math/rand"
    "strings"
    "time"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/model"
)

// dbTimeLayout is the DATETIME format used for bind parameters.  With
// parseTime=true the driver scans DATETIME columns into time.Time
// directly, so the layout is only needed on the way in.
const dbTimeLayout = "2006-01-02 15:04:05"

// Reservation identifier space.  Identifiers are random 6-digit
// numbers, not a sequence, so ids leak no information about booking
// volume.  maxIDAttempts bounds the regenerate loop in the degenerate
// case of a nearly full id space.
const (
    minReserveID  = 100000
    maxReserveID  = 999999
    maxIDAttempts = 25
)

// ReservationRepo provides persistence for reservations and implements
// booking.ReservationStore.  Reservations are never deleted; terminal
// states are retained as history.  All timestamp columns are stored in
// UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, room_id, requester_ssn, booking_date, start_time, end_time, status, check_in_at, qr_token, created_at`

// scanReservation reads one row in reservationColumns order.
func scanReservation(row interface{ Scan(...interface{}) error }) (model.Reservation, error) {
    var res model.Reservation
    var status uint8
    var checkIn sql.NullTime
    err := row.Scan(
        &res.ID, &res.RoomID, &res.RequesterSSN, &res.BookingDate,
        &res.StartTime, &res.EndTime, &status, &checkIn,
        &res.QRToken, &res.CreatedAt,
    )
    if err != nil {
        return model.Reservation{}, err
    }
    res.Status = model.ReservationStatus(status)
    if checkIn.Valid {
        t := checkIn.Time
        res.CheckInAt = &t
    }
    return res, nil
}

// Create inserts a new reservation with a freshly generated 6-digit
// identifier.  Candidates are drawn uniformly from [100000, 999999] and
// checked for existence before insertion; the unique primary key is the
// backstop for two concurrent requests drawing the same candidate, in
// which case the insert fails with a duplicate-key error and the loop
// draws again.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    const insert = `INSERT INTO reservations
        (id, room_id, requester_ssn, booking_date, start_time, end_time, status, qr_token)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    for attempt := 0; attempt < maxIDAttempts; attempt++ {
        id := uint64(minReserveID + rand.Intn(maxReserveID-minReserveID+1))
        var count int
        if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE id = ?`, id).Scan(&count); err != nil {
            return err
        }
        if count > 0 {
            continue
        }
        _, err := r.db.ExecContext(ctx, insert,
            id, res.RoomID, res.RequesterSSN,
            res.BookingDate.Format("2006-01-02"),
            res.StartTime.UTC().Format(dbTimeLayout),
            res.EndTime.UTC().Format(dbTimeLayout),
            uint8(res.Status), res.QRToken,
        )
        if err != nil {
            if isDuplicateKey(err) {
                continue
            }
            return err
        }
        res.ID = id
        return nil
    }
    return fmt.Errorf("could not allocate a unique reservation id after %d attempts", maxIDAttempts)
}

// ByID loads one reservation.  Returns booking.ErrReservationNotFound
// when no row exists.
func (r *ReservationRepo) ByID(ctx context.Context, id uint64) (model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Reservation{}, booking.ErrReservationNotFound
    }
    return res, err
}

// HasOverlap reports whether an active reservation for the room on the
// given day intersects [start, end).  The comparison is strict on both
// sides so touching endpoints do not conflict.
func (r *ReservationRepo) HasOverlap(ctx context.Context, roomID uint64, day, start, end time.Time) (bool, error) {
    statuses := model.ActiveStatuses()
    placeholders := make([]string, len(statuses))
    args := []interface{}{roomID, day.Format("2006-01-02")}
    for i, s := range statuses {
        placeholders[i] = "?"
        args = append(args, uint8(s))
    }
    args = append(args, end.UTC().Format(dbTimeLayout), start.UTC().Format(dbTimeLayout))
    q := `SELECT COUNT(*) FROM reservations
          WHERE room_id = ? AND booking_date = ?
          AND status IN (` + strings.Join(placeholders, ",") + `)
          AND start_time < ? AND end_time > ?`
    var count int
    if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
        return false, err
    }
    return count > 0, nil
}

// Transition conditionally updates the status.  Zero affected rows
// means the precondition no longer held; callers treat that as a no-op.
func (r *ReservationRepo) Transition(ctx context.Context, id uint64, from []model.ReservationStatus, to model.ReservationStatus, checkInAt *time.Time) (int64, error) {
    return transition(ctx, r.db, id, from, to, checkInAt)
}

// transition issues the conditional UPDATE against a db or tx handle so
// Cancel can reuse it inside its transaction.
func transition(ctx context.Context, ex dbtx, id uint64, from []model.ReservationStatus, to model.ReservationStatus, checkInAt *time.Time) (int64, error) {
    placeholders := make([]string, len(from))
    args := make([]interface{}, 0, len(from)+3)
    set := `status = ?`
    args = append(args, uint8(to))
    if checkInAt != nil {
        set += `, check_in_at = ?`
        args = append(args, checkInAt.UTC().Format(dbTimeLayout))
    }
    args = append(args, id)
    for i, s := range from {
        placeholders[i] = "?"
        args = append(args, uint8(s))
    }
    q := `UPDATE reservations SET ` + set + ` WHERE id = ? AND status IN (` + strings.Join(placeholders, ",") + `)`
    result, err := ex.ExecContext(ctx, q, args...)
    if err != nil {
        return 0, err
    }
    return result.RowsAffected()
}

// Cancel performs the conditional transition to Cancelled and inserts
// the cancellation record in one transaction.  When the transition
// affects zero rows the transaction is rolled back and no record is
// written, so a reservation can never carry more than one record.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64, from []model.ReservationStatus, rec *model.CancellationRecord) (int64, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    n, err := transition(ctx, tx, id, from, model.StatusCancelled, nil)
    if err != nil {
        return 0, err
    }
    if n == 0 {
        return 0, nil
    }
    var staff interface{}
    if rec.StaffSSN != "" {
        staff = rec.StaffSSN
    }
    result, err := tx.ExecContext(ctx,
        `INSERT INTO cancellations (reservation_id, reason, staff_ssn) VALUES (?, ?, ?)`,
        rec.ReservationID, rec.Reason, staff,
    )
    if err != nil {
        return 0, err
    }
    recID, err := result.LastInsertId()
    if err != nil {
        return 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    rec.ID = uint64(recID)
    return n, nil
}

// ListByRequester returns the employee's reservations, most recent
// first.  An employee with no bookings gets an empty slice.
func (r *ReservationRepo) ListByRequester(ctx context.Context, ssn string) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE requester_ssn = ?
               ORDER BY booking_date DESC, start_time DESC`
    rows, err := r.db.QueryContext(ctx, q, ssn)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectReservations(rows)
}

// ListAll returns every reservation, optionally restricted to one room,
// newest booking date first.  Used by the admin dashboard.
func (r *ReservationRepo) ListAll(ctx context.Context, roomID *uint64) ([]model.Reservation, error) {
    q := `SELECT ` + reservationColumns + ` FROM reservations`
    args := []interface{}{}
    if roomID != nil {
        q += ` WHERE room_id = ?`
        args = append(args, *roomID)
    }
    q += ` ORDER BY booking_date DESC, start_time DESC`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectReservations(rows)
}

// DueForExpiry returns Booked reservations with no check-in whose start
// time lies in (after, upTo].  The sweeper supplies a narrow rolling
// window so each reservation is swept approximately once.
func (r *ReservationRepo) DueForExpiry(ctx context.Context, after, upTo time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE status = ? AND check_in_at IS NULL
               AND start_time > ? AND start_time <= ?`
    rows, err := r.db.QueryContext(ctx, q,
        uint8(model.StatusBooked),
        after.UTC().Format(dbTimeLayout),
        upTo.UTC().Format(dbTimeLayout),
    )
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectReservations(rows)
}

// collectReservations drains a result set in reservationColumns order.
func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// LockRoom takes a MySQL advisory lock keyed by room id, serializing
// the overlap check and insert for that room across concurrent
// requests.  GET_LOCK is per connection, so the lock is held on a
// dedicated connection that the release function returns to the pool.
func (r *ReservationRepo) LockRoom(ctx context.Context, roomID uint64) (func(), error) {
    conn, err := r.db.Conn(ctx)
    if err != nil {
        return nil, err
    }
    key := fmt.Sprintf("room_booking:%d", roomID)
    var got sql.NullInt64
    if err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(?, 5)`, key).Scan(&got); err != nil {
        _ = conn.Close()
        return nil, err
    }
    if !got.Valid || got.Int64 != 1 {
        _ = conn.Close()
        return nil, fmt.Errorf("timed out waiting for advisory lock %s", key)
    }
    release := func() {
        // RELEASE_LOCK must run on the connection that holds the lock.
        var dropped sql.NullInt64
        _ = conn.QueryRowContext(context.Background(), `SELECT RELEASE_LOCK(?)`, key).Scan(&dropped)
        _ = conn.Close()
    }
    return release, nil
}
