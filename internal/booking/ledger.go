package booking

import (
    "context"
    "fmt"

    "github.com/iliyamo/room-reservation/internal/model"
)

// Ledger accumulates no-show strikes per employee and escalates to
// blacklist membership.  Two counting paths coexist on purpose: the
// expiry sweeper feeds RecordNoShow (blacklist escalation every third
// strike) while the late check-in sweep feeds RecordLateCheckin
// (deactivates the employee at three).  The duplication mirrors the
// system this replaces; which path is authoritative is an open product
// question, so neither was merged into the other.
type Ledger struct {
    Employees EmployeeStore
    Blacklist BlacklistStore
    Clock     Clock
}

// NewLedger wires a Ledger from its stores and clock.
func NewLedger(employees EmployeeStore, blacklist BlacklistStore, clock Clock) *Ledger {
    if employees == nil || blacklist == nil || clock == nil {
        panic("nil dependency passed to NewLedger")
    }
    return &Ledger{Employees: employees, Blacklist: blacklist, Clock: clock}
}

// WithStores returns a copy of the ledger bound to different stores,
// typically the transaction-scoped ones inside Atomic.InTx, so the
// strike rules run unchanged while their writes join the caller's
// transaction.
func (l *Ledger) WithStores(employees EmployeeStore, blacklist BlacklistStore) *Ledger {
    return &Ledger{Employees: employees, Blacklist: blacklist, Clock: l.Clock}
}

// RecordNoShow increments the employee's no-show counter.  Every time
// the counter reaches a multiple of 3 the escalation counter is bumped
// and, if the employee has no active blacklist entry, one is inserted
// dated now.  Counters are never decremented; unlocking later does not
// reset them.
func (l *Ledger) RecordNoShow(ctx context.Context, ssn string) error {
    count, err := l.Employees.IncrementNoShow(ctx, ssn)
    if err != nil {
        return fmt.Errorf("increment no-show for %s: %w", ssn, err)
    }
    if count == 0 || count%3 != 0 {
        return nil
    }
    if err := l.Employees.IncrementLockCount(ctx, ssn); err != nil {
        return fmt.Errorf("increment lock count for %s: %w", ssn, err)
    }
    exists, err := l.Blacklist.Exists(ctx, ssn)
    if err != nil {
        return fmt.Errorf("blacklist lookup for %s: %w", ssn, err)
    }
    if exists {
        return nil
    }
    if err := l.Blacklist.Insert(ctx, ssn, l.Clock.Now().UTC()); err != nil {
        return fmt.Errorf("blacklist insert for %s: %w", ssn, err)
    }
    return nil
}

// RecordLateCheckin is the alternate no-show accounting path.  It
// increments a separate counter and, once that counter reaches 3, sets
// the employee's status to inactive instead of touching the blacklist.
func (l *Ledger) RecordLateCheckin(ctx context.Context, ssn string) error {
    count, err := l.Employees.IncrementLateCheckin(ctx, ssn)
    if err != nil {
        return fmt.Errorf("increment late check-in for %s: %w", ssn, err)
    }
    if count < 3 {
        return nil
    }
    if err := l.Employees.SetStatus(ctx, ssn, model.EmployeeInactive); err != nil {
        return fmt.Errorf("deactivate employee %s: %w", ssn, err)
    }
    return nil
}

// IsBlacklisted reports whether the employee currently has an active
// blacklist entry.
func (l *Ledger) IsBlacklisted(ctx context.Context, ssn string) (bool, error) {
    return l.Blacklist.Exists(ctx, ssn)
}

// Unlock removes the employee's active blacklist entry.  The strike
// counters are intentionally left untouched so the next escalation
// happens at the next multiple of 3.
func (l *Ledger) Unlock(ctx context.Context, ssn string) error {
    return l.Blacklist.Delete(ctx, ssn)
}

// ListBlacklist returns all blacklist entries joined with the strike
// counters, most recently locked first.
func (l *Ledger) ListBlacklist(ctx context.Context) ([]BlacklistDetail, error) {
    return l.Blacklist.List(ctx)
}
