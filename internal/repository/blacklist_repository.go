package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/room-reservation/internal/booking"
)

// BlacklistRepo maintains blacklist membership and implements
// booking.BlacklistStore.  Unlocking deletes the row and leaves the
// employee's strike counters unchanged.  The query helpers take a dbtx
// so the same statements run inside the sweeper's transaction.
type BlacklistRepo struct {
    db *sql.DB
}

// NewBlacklistRepo returns a BlacklistRepo bound to the given database.
func NewBlacklistRepo(db *sql.DB) *BlacklistRepo { return &BlacklistRepo{db: db} }

func blacklistExists(ctx context.Context, h dbtx, ssn string) (bool, error) {
    var count int
    err := h.QueryRowContext(ctx, `SELECT COUNT(*) FROM blacklist WHERE ssn = ?`, ssn).Scan(&count)
    if err != nil {
        return false, err
    }
    return count > 0, nil
}

func blacklistInsert(ctx context.Context, h dbtx, ssn string, at time.Time) error {
    _, err := h.ExecContext(ctx,
        `INSERT INTO blacklist (ssn, locked_at) VALUES (?, ?)`,
        ssn, at.UTC().Format(dbTimeLayout),
    )
    return err
}

func blacklistList(ctx context.Context, h dbtx) ([]booking.BlacklistDetail, error) {
    const q = `SELECT b.id, b.ssn, e.first_name, e.last_name, b.locked_at, e.no_show_count, e.lock_count
               FROM blacklist b
               JOIN employees e ON e.ssn = b.ssn
               ORDER BY b.locked_at DESC`
    rows, err := h.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]booking.BlacklistDetail, 0)
    for rows.Next() {
        var d booking.BlacklistDetail
        if err := rows.Scan(&d.ID, &d.SSN, &d.FirstName, &d.LastName, &d.LockedAt, &d.NoShowCount, &d.LockCount); err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Exists reports whether the employee currently has a blacklist entry.
func (r *BlacklistRepo) Exists(ctx context.Context, ssn string) (bool, error) {
    return blacklistExists(ctx, r.db, ssn)
}

// Insert adds a blacklist entry for the employee dated at.  Callers
// check Exists first; at most one entry per employee holds as long as
// inserts go through the ledger.
func (r *BlacklistRepo) Insert(ctx context.Context, ssn string, at time.Time) error {
    return blacklistInsert(ctx, r.db, ssn, at)
}

// Delete removes the employee's blacklist entry.  Deleting a
// non-existent entry is a no-op, making unlock idempotent.
func (r *BlacklistRepo) Delete(ctx context.Context, ssn string) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM blacklist WHERE ssn = ?`, ssn)
    return err
}

// List returns all blacklist entries joined with the employee's name
// and strike counters, most recently locked first.
func (r *BlacklistRepo) List(ctx context.Context) ([]booking.BlacklistDetail, error) {
    return blacklistList(ctx, r.db)
}
