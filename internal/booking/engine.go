package booking

import (
    "context"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// Engine is the state machine governing a single reservation's
// transitions.  All rule checks happen here; the stores only enforce
// the conditional-update contract so that exactly one caller wins when
// two race on the same reservation.
type Engine struct {
    Reservations  ReservationStore
    Rooms         RoomStore
    Cancellations CancellationStore
    Ledger        *Ledger
    Validator     *OverlapValidator
    Clock         Clock
    Events        EventSink // optional; nil disables event publication
}

// NewEngine wires an Engine from its dependencies.  Events may be nil.
func NewEngine(res ReservationStore, rooms RoomStore, canc CancellationStore, ledger *Ledger, clock Clock, events EventSink) *Engine {
    if res == nil || rooms == nil || canc == nil || ledger == nil || clock == nil {
        panic("nil dependency passed to NewEngine")
    }
    return &Engine{
        Reservations:  res,
        Rooms:         rooms,
        Cancellations: canc,
        Ledger:        ledger,
        Validator:     NewOverlapValidator(res),
        Clock:         clock,
        Events:        events,
    }
}

// CreateParams carries a booking request into the engine.  Day is the
// calendar date of the booking; Start and End are full timestamps on
// that day.
type CreateParams struct {
    RoomID       uint64
    RequesterSSN string
    Day          string // "2006-01-02"
    Start        string // "15:04:05"
    End          string // "15:04:05"
}

// CreateBooking validates and persists a new reservation.  The initial
// state depends on the room category: standard rooms go straight to
// Booked, VIP rooms start in PendingApproval and stay inert until an
// admin approves them.  Creation is refused without touching the store
// when the requester is blacklisted, the room does not exist, the
// interval is malformed, or an active reservation overlaps.  The
// overlap check and the insert run under a per-room lock to close the
// check-then-insert race.
func (e *Engine) CreateBooking(ctx context.Context, p CreateParams) (model.Reservation, error) {
    day, start, end, err := parseInterval(p.Day, p.Start, p.End)
    if err != nil {
        return model.Reservation{}, err
    }
    blocked, err := e.Ledger.IsBlacklisted(ctx, p.RequesterSSN)
    if err != nil {
        return model.Reservation{}, fmt.Errorf("blacklist check for %s: %w", p.RequesterSSN, err)
    }
    if blocked {
        return model.Reservation{}, ErrBlacklisted
    }
    room, err := e.Rooms.ByID(ctx, p.RoomID)
    if err != nil {
        return model.Reservation{}, err
    }

    release, err := e.Reservations.LockRoom(ctx, p.RoomID)
    if err != nil {
        return model.Reservation{}, fmt.Errorf("lock room %d: %w", p.RoomID, err)
    }
    defer release()

    conflict, err := e.Validator.Conflicts(ctx, p.RoomID, day, start, end)
    if err != nil {
        return model.Reservation{}, err
    }
    if conflict {
        return model.Reservation{}, ErrConflict
    }

    now := e.Clock.Now().UTC()
    status := model.StatusBooked
    if room.IsVIP() {
        status = model.StatusPendingApproval
    }
    r := model.Reservation{
        RoomID:       p.RoomID,
        RequesterSSN: p.RequesterSSN,
        BookingDate:  day,
        StartTime:    start,
        EndTime:      end,
        Status:       status,
        QRToken:      fmt.Sprintf("QR%d", now.UnixMilli()),
        CreatedAt:    now,
    }
    if err := e.Reservations.Create(ctx, &r); err != nil {
        return model.Reservation{}, fmt.Errorf("create reservation: %w", err)
    }
    return r, nil
}

// ApproveBooking moves a VIP reservation from PendingApproval to
// Booked.  Approval of a non-VIP room's reservation is refused with
// ErrInvalidState; a reservation in any state other than
// PendingApproval is refused with ErrNotPending.  The conditional
// update guarantees state is unchanged when approval loses a race.
func (e *Engine) ApproveBooking(ctx context.Context, id uint64) error {
    r, err := e.Reservations.ByID(ctx, id)
    if err != nil {
        return err
    }
    room, err := e.Rooms.ByID(ctx, r.RoomID)
    if err != nil {
        return err
    }
    if !room.IsVIP() {
        return ErrInvalidState
    }
    if r.Status != model.StatusPendingApproval {
        return ErrNotPending
    }
    n, err := e.Reservations.Transition(ctx, id, []model.ReservationStatus{model.StatusPendingApproval}, model.StatusBooked, nil)
    if err != nil {
        return fmt.Errorf("approve reservation %d: %w", id, err)
    }
    if n == 0 {
        return ErrNotPending
    }
    return nil
}

// CancelBooking cancels a Booked or PendingApproval reservation and
// writes exactly one cancellation record in the same transaction.
// staffSSN is empty for self-service cancellations.  Re-cancelling a
// cancelled reservation returns ErrAlreadyCancelled and writes nothing.
func (e *Engine) CancelBooking(ctx context.Context, id uint64, reason, staffSSN string) error {
    if strings.TrimSpace(reason) == "" {
        return ErrReasonRequired
    }
    r, err := e.Reservations.ByID(ctx, id)
    if err != nil {
        return err
    }
    switch r.Status {
    case model.StatusCancelled:
        return ErrAlreadyCancelled
    case model.StatusBooked, model.StatusPendingApproval:
        // cancellable
    default:
        return ErrInvalidState
    }
    rec := &model.CancellationRecord{
        ReservationID: id,
        Reason:        reason,
        StaffSSN:      staffSSN,
        CreatedAt:     e.Clock.Now().UTC(),
    }
    n, err := e.Reservations.Cancel(ctx, id, []model.ReservationStatus{model.StatusBooked, model.StatusPendingApproval}, rec)
    if err != nil {
        return fmt.Errorf("cancel reservation %d: %w", id, err)
    }
    if n == 0 {
        // state moved underneath us between the read and the update
        return ErrInvalidState
    }
    if e.Events != nil {
        if err := e.Events.BookingCancelled(ctx, r, reason); err != nil {
            log.Printf("engine: publish cancel event for reservation %d: %v", id, err)
        }
    }
    return nil
}

// ConfirmCheckIn records attendance for a reservation.  Self-service
// confirmation accepts only Booked.  The administrative path also
// accepts PendingApproval so an admin can confirm attendance for an
// approved-but-not-yet-transitioned VIP booking.  The check-in
// timestamp is written as part of the conditional update.
func (e *Engine) ConfirmCheckIn(ctx context.Context, id uint64, asAdmin bool) (model.Reservation, error) {
    r, err := e.Reservations.ByID(ctx, id)
    if err != nil {
        return model.Reservation{}, err
    }
    from := []model.ReservationStatus{model.StatusBooked}
    if asAdmin {
        from = append(from, model.StatusPendingApproval)
    }
    allowed := r.Status == model.StatusBooked || (asAdmin && r.Status == model.StatusPendingApproval)
    if !allowed {
        return model.Reservation{}, ErrInvalidState
    }
    now := e.Clock.Now().UTC()
    n, err := e.Reservations.Transition(ctx, id, from, model.StatusCheckedIn, &now)
    if err != nil {
        return model.Reservation{}, fmt.Errorf("confirm reservation %d: %w", id, err)
    }
    if n == 0 {
        return model.Reservation{}, ErrInvalidState
    }
    return e.Reservations.ByID(ctx, id)
}

// ListForRequester returns the employee's reservations, most recent
// first.
func (e *Engine) ListForRequester(ctx context.Context, ssn string) ([]model.Reservation, error) {
    return e.Reservations.ListByRequester(ctx, ssn)
}

// CancellationReason returns the cancellation record for a reservation,
// or ErrNoCancellation when it was never cancelled.
func (e *Engine) CancellationReason(ctx context.Context, id uint64) (model.CancellationRecord, error) {
    return e.Cancellations.ByReservation(ctx, id)
}

// parseInterval combines a booking day with start and end clock times
// into UTC timestamps and enforces start < end.  Malformed input and
// inverted intervals both surface as ErrInvalidInterval, so the rule
// holds even for callers that bypass the HTTP layer.
func parseInterval(day, start, end string) (time.Time, time.Time, time.Time, error) {
    d, err := time.Parse("2006-01-02", day)
    if err != nil {
        return time.Time{}, time.Time{}, time.Time{}, ErrInvalidInterval
    }
    s, err := time.Parse("2006-01-02 15:04:05", day+" "+start)
    if err != nil {
        return time.Time{}, time.Time{}, time.Time{}, ErrInvalidInterval
    }
    e, err := time.Parse("2006-01-02 15:04:05", day+" "+end)
    if err != nil {
        return time.Time{}, time.Time{}, time.Time{}, ErrInvalidInterval
    }
    if !s.Before(e) {
        return time.Time{}, time.Time{}, time.Time{}, ErrInvalidInterval
    }
    return d.UTC(), s.UTC(), e.UTC(), nil
}
