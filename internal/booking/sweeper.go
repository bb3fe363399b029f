package booking

import (
    "context"
    "log"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// Default sweep tuning.  The sweeper runs every Interval and claims
// reservations whose start time crossed the Grace threshold within the
// last Window.  Because Interval == Window each reservation falls into
// roughly one sweep cycle; this is a heuristic, not an exactly-once
// guarantee, and a reservation whose window passes while the process is
// down is simply never expired.
const (
    DefaultSweepInterval = 15 * time.Second
    DefaultGracePeriod   = 2 * time.Minute
    DefaultSweepWindow   = 15 * time.Second
)

// Sweeper is the periodic background task that expires Booked
// reservations whose check-in grace period elapsed and records the
// resulting no-show strikes.  Each reservation's expiry and strike
// commit in one transaction through Atomic.  Failures on one
// reservation are logged and never stop the sweep over the rest.
type Sweeper struct {
    Reservations ReservationStore
    Atomic       Atomic
    Ledger       *Ledger
    Clock        Clock
    Events       EventSink // optional; nil disables event publication

    Interval time.Duration
    Grace    time.Duration
    Window   time.Duration
}

// NewSweeper builds a Sweeper with the default interval, grace period
// and window.  Events may be nil.
func NewSweeper(res ReservationStore, atomic Atomic, ledger *Ledger, clock Clock, events EventSink) *Sweeper {
    if res == nil || atomic == nil || ledger == nil || clock == nil {
        panic("nil dependency passed to NewSweeper")
    }
    return &Sweeper{
        Reservations: res,
        Atomic:       atomic,
        Ledger:       ledger,
        Clock:        clock,
        Events:       events,
        Interval:     DefaultSweepInterval,
        Grace:        DefaultGracePeriod,
        Window:       DefaultSweepWindow,
    }
}

// Run executes Sweep on a fixed ticker until the context is cancelled.
// One sweep runs immediately at startup, matching the behavior of
// firing the first check before the interval elapses.
func (s *Sweeper) Run(ctx context.Context) {
    if err := s.Sweep(ctx); err != nil {
        log.Printf("sweeper: initial sweep: %v", err)
    }
    t := time.NewTicker(s.Interval)
    defer t.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-t.C:
            if err := s.Sweep(ctx); err != nil {
                log.Printf("sweeper: %v", err)
            }
        }
    }
}

// Sweep performs one pass: every Booked reservation with no check-in
// whose start time lies in (now-Grace-Window, now-Grace] is moved to
// Expired and a no-show strike is recorded for its requester.  Per
// reservation the transition and the strike run in one transaction,
// and the conditional transition keeps the strike at-most-once when a
// concurrent check-in or a second sweep races on the same reservation.
// Sweep is exported so admin endpoints and tests can trigger it
// directly with a controlled clock.
func (s *Sweeper) Sweep(ctx context.Context) error {
    now := s.Clock.Now().UTC()
    due, err := s.Reservations.DueForExpiry(ctx, now.Add(-s.Grace-s.Window), now.Add(-s.Grace))
    if err != nil {
        return err
    }
    for _, r := range due {
        expired := false
        err := s.Atomic.InTx(ctx, func(st SweepStores) error {
            n, err := st.Reservations.Transition(ctx, r.ID, []model.ReservationStatus{model.StatusBooked}, model.StatusExpired, nil)
            if err != nil {
                return err
            }
            if n == 0 {
                // checked in or cancelled since the query; nothing to record
                return nil
            }
            expired = true
            return s.Ledger.WithStores(st.Employees, st.Blacklist).RecordNoShow(ctx, r.RequesterSSN)
        })
        if err != nil {
            log.Printf("sweeper: expire reservation %d: %v", r.ID, err)
            continue
        }
        if !expired {
            continue
        }
        if s.Events != nil {
            if err := s.Events.BookingExpired(ctx, r); err != nil {
                log.Printf("sweeper: publish expiry event for reservation %d: %v", r.ID, err)
            }
        }
    }
    return nil
}

// SweepLateCheckins is the second, independently triggered no-show
// path.  It expires the same window of reservations but feeds the
// separate late check-in counter, whose escalation deactivates the
// employee instead of blacklisting.  Kept distinct from Sweep on
// purpose; see Ledger.  Returns the number of reservations expired.
func (s *Sweeper) SweepLateCheckins(ctx context.Context) (int, error) {
    now := s.Clock.Now().UTC()
    due, err := s.Reservations.DueForExpiry(ctx, now.Add(-s.Grace-s.Window), now.Add(-s.Grace))
    if err != nil {
        return 0, err
    }
    expired := 0
    for _, r := range due {
        claimed := false
        err := s.Atomic.InTx(ctx, func(st SweepStores) error {
            n, err := st.Reservations.Transition(ctx, r.ID, []model.ReservationStatus{model.StatusBooked}, model.StatusExpired, nil)
            if err != nil {
                return err
            }
            if n == 0 {
                return nil
            }
            claimed = true
            return s.Ledger.WithStores(st.Employees, st.Blacklist).RecordLateCheckin(ctx, r.RequesterSSN)
        })
        if err != nil {
            log.Printf("sweeper: late check-in expire reservation %d: %v", r.ID, err)
            continue
        }
        if claimed {
            expired++
        }
    }
    return expired, nil
}
