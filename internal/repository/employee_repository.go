package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/iliyamo/room-reservation/internal/model"
)

// EmployeeRepo provides access to the employees table, including the
// strike counters the booking ledger maintains.  It implements
// booking.EmployeeStore.
type EmployeeRepo struct {
    db *sql.DB
}

// NewEmployeeRepo returns an EmployeeRepo bound to the given database.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

const employeeColumns = `ssn, first_name, last_name, password_hash, role, status, no_show_count, lock_count, late_checkin_count, dept_no, created_at`

// BySSN loads an employee record.  Returns sql.ErrNoRows when no
// employee with that SSN exists; the auth handler turns that into 401.
func (r *EmployeeRepo) BySSN(ctx context.Context, ssn string) (model.Employee, error) {
    const q = `SELECT ` + employeeColumns + ` FROM employees WHERE ssn = ? LIMIT 1`
    var e model.Employee
    err := r.db.QueryRowContext(ctx, q, ssn).Scan(
        &e.SSN, &e.FirstName, &e.LastName, &e.PasswordHash, &e.Role, &e.Status,
        &e.NoShowCount, &e.LockCount, &e.LateCheckinCount, &e.DeptNo, &e.CreatedAt,
    )
    return e, err
}

// incrementEmployee bumps one counter column on the given handle and
// returns the new value.  MySQL has no RETURNING, hence the update plus
// read-back; callers supply a transaction when they need the two
// statements isolated from concurrent sweeps.
func incrementEmployee(ctx context.Context, h dbtx, ssn, column string) (uint32, error) {
    // column comes from a fixed internal call site, never user input
    result, err := h.ExecContext(ctx, `UPDATE employees SET `+column+` = `+column+` + 1 WHERE ssn = ?`, ssn)
    if err != nil {
        return 0, err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return 0, err
    }
    if n == 0 {
        return 0, fmt.Errorf("employee %s not found", ssn)
    }
    var count uint32
    if err := h.QueryRowContext(ctx, `SELECT `+column+` FROM employees WHERE ssn = ?`, ssn).Scan(&count); err != nil {
        return 0, err
    }
    return count, nil
}

// increment wraps incrementEmployee in its own transaction for callers
// outside an enclosing one.
func (r *EmployeeRepo) increment(ctx context.Context, ssn, column string) (uint32, error) {
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
    count, err := incrementEmployee(ctx, tx, ssn, column)
    if err != nil {
        return 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return count, nil
}

// IncrementNoShow adds one no-show strike and returns the new total.
func (r *EmployeeRepo) IncrementNoShow(ctx context.Context, ssn string) (uint32, error) {
    return r.increment(ctx, ssn, "no_show_count")
}

// IncrementLockCount adds one blacklist escalation.
func (r *EmployeeRepo) IncrementLockCount(ctx context.Context, ssn string) error {
    _, err := r.increment(ctx, ssn, "lock_count")
    return err
}

// IncrementLateCheckin adds one late check-in strike (the alternate
// counter) and returns the new total.
func (r *EmployeeRepo) IncrementLateCheckin(ctx context.Context, ssn string) (uint32, error) {
    return r.increment(ctx, ssn, "late_checkin_count")
}

// SetStatus updates the employee's eligibility status.
func (r *EmployeeRepo) SetStatus(ctx context.Context, ssn string, status uint8) error {
    _, err := r.db.ExecContext(ctx, `UPDATE employees SET status = ? WHERE ssn = ?`, status, ssn)
    return err
}

// StrikeStat summarizes one employee's accumulated strikes for the
// admin view.
type StrikeStat struct {
    SSN         string `json:"ssn"`
    FirstName   string `json:"first_name"`
    LastName    string `json:"last_name"`
    NoShowCount uint32 `json:"no_show_count"`
    LockCount   uint32 `json:"lock_count"`
    DeptNo      uint32 `json:"dept_no"`
}

// StrikeStats lists employees with at least one recorded strike or
// escalation, worst offenders first.
func (r *EmployeeRepo) StrikeStats(ctx context.Context) ([]StrikeStat, error) {
    const q = `SELECT ssn, first_name, last_name, no_show_count, lock_count, dept_no
               FROM employees
               WHERE no_show_count > 0 OR lock_count > 0
               ORDER BY no_show_count DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]StrikeStat, 0)
    for rows.Next() {
        var s StrikeStat
        if err := rows.Scan(&s.SSN, &s.FirstName, &s.LastName, &s.NoShowCount, &s.LockCount, &s.DeptNo); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
