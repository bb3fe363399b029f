package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/model"
)

// AtomicStores implements booking.Atomic over a single database handle.
// InTx opens one transaction and hands the caller store views whose
// statements all run on it, so a reservation's expiry and its strike
// commit or roll back together.
type AtomicStores struct {
    db *sql.DB
}

// NewAtomicStores returns an AtomicStores bound to the given database.
func NewAtomicStores(db *sql.DB) *AtomicStores { return &AtomicStores{db: db} }

// InTx runs fn inside one transaction.  An error from fn rolls the
// transaction back.
func (a *AtomicStores) InTx(ctx context.Context, fn func(booking.SweepStores) error) error {
    tx, err := a.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    stores := booking.SweepStores{
        Reservations: txTransitioner{tx: tx},
        Employees:    txEmployees{tx: tx},
        Blacklist:    txBlacklist{tx: tx},
    }
    if err := fn(stores); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// txTransitioner exposes the conditional reservation update on an open
// transaction.
type txTransitioner struct {
    tx *sql.Tx
}

func (t txTransitioner) Transition(ctx context.Context, id uint64, from []model.ReservationStatus, to model.ReservationStatus, checkInAt *time.Time) (int64, error) {
    return transition(ctx, t.tx, id, from, to, checkInAt)
}

// txEmployees implements booking.EmployeeStore on an open transaction.
type txEmployees struct {
    tx *sql.Tx
}

func (t txEmployees) IncrementNoShow(ctx context.Context, ssn string) (uint32, error) {
    return incrementEmployee(ctx, t.tx, ssn, "no_show_count")
}

func (t txEmployees) IncrementLockCount(ctx context.Context, ssn string) error {
    _, err := incrementEmployee(ctx, t.tx, ssn, "lock_count")
    return err
}

func (t txEmployees) IncrementLateCheckin(ctx context.Context, ssn string) (uint32, error) {
    return incrementEmployee(ctx, t.tx, ssn, "late_checkin_count")
}

func (t txEmployees) SetStatus(ctx context.Context, ssn string, status uint8) error {
    _, err := t.tx.ExecContext(ctx, `UPDATE employees SET status = ? WHERE ssn = ?`, status, ssn)
    return err
}

// txBlacklist implements booking.BlacklistStore on an open transaction.
type txBlacklist struct {
    tx *sql.Tx
}

func (t txBlacklist) Exists(ctx context.Context, ssn string) (bool, error) {
    return blacklistExists(ctx, t.tx, ssn)
}

func (t txBlacklist) Insert(ctx context.Context, ssn string, at time.Time) error {
    return blacklistInsert(ctx, t.tx, ssn, at)
}

func (t txBlacklist) Delete(ctx context.Context, ssn string) error {
    _, err := t.tx.ExecContext(ctx, `DELETE FROM blacklist WHERE ssn = ?`, ssn)
    return err
}

func (t txBlacklist) List(ctx context.Context) ([]booking.BlacklistDetail, error) {
    return blacklistList(ctx, t.tx)
}
