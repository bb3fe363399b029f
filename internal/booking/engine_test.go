package booking

import (
    "context"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/room-reservation/internal/model"
)

type engineFixture struct {
    engine    *Engine
    store     *memStore
    employees *memEmployees
    blacklist *memBlacklist
    clock     *fixedClock
    sink      *recordingSink
}

func newEngineFixture(t *testing.T) *engineFixture {
    t.Helper()
    store := newMemStore()
    rooms := memRooms{
        1: {ID: 1, Name: "Sycamore", CategoryID: model.RoomCategoryStandard, Capacity: 8, Building: "HQ", Floor: 2},
        2: {ID: 2, Name: "Boardroom", CategoryID: model.RoomCategoryVIP, Capacity: 16, Building: "HQ", Floor: 5},
    }
    employees := newMemEmployees()
    blacklist := newMemBlacklist()
    clock := newFixedClock(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
    sink := &recordingSink{}
    ledger := NewLedger(employees, blacklist, clock)
    return &engineFixture{
        engine:    NewEngine(store, rooms, store, ledger, clock, sink),
        store:     store,
        employees: employees,
        blacklist: blacklist,
        clock:     clock,
        sink:      sink,
    }
}

func params(roomID uint64, ssn, start, end string) CreateParams {
    return CreateParams{
        RoomID:       roomID,
        RequesterSSN: ssn,
        Day:          "2026-03-10",
        Start:        start,
        End:          end,
    }
}

func TestCreateBookingStandardRoom(t *testing.T) {
    f := newEngineFixture(t)
    r, err := f.engine.CreateBooking(context.Background(), params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    assert.Equal(t, model.StatusBooked, r.Status)
    assert.NotZero(t, r.ID)
    assert.True(t, strings.HasPrefix(r.QRToken, "QR"))
    assert.Equal(t, "111-11-1111", r.RequesterSSN)
}

func TestCreateBookingVIPRoomPendsApproval(t *testing.T) {
    f := newEngineFixture(t)
    r, err := f.engine.CreateBooking(context.Background(), params(2, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    assert.Equal(t, model.StatusPendingApproval, r.Status)
}

func TestCreateBookingOverlapRejected(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    _, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)

    cases := []struct{ start, end string }{
        {"09:00:00", "10:00:00"}, // identical
        {"09:30:00", "10:30:00"}, // tail overlap
        {"08:30:00", "09:30:00"}, // head overlap
        {"08:00:00", "11:00:00"}, // envelops
        {"09:15:00", "09:45:00"}, // contained
    }
    for _, c := range cases {
        _, err := f.engine.CreateBooking(ctx, params(1, "222-22-2222", c.start, c.end))
        assert.ErrorIs(t, err, ErrConflict, "interval %s-%s", c.start, c.end)
    }
}

func TestCreateBookingTouchingIntervalsAllowed(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    _, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)

    _, err = f.engine.CreateBooking(ctx, params(1, "222-22-2222", "10:00:00", "11:00:00"))
    assert.NoError(t, err, "booking starting at previous end must be accepted")
    _, err = f.engine.CreateBooking(ctx, params(1, "333-33-3333", "08:00:00", "09:00:00"))
    assert.NoError(t, err, "booking ending at next start must be accepted")
}

func TestCreateBookingOtherRoomDoesNotConflict(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    _, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    _, err = f.engine.CreateBooking(ctx, params(2, "222-22-2222", "09:00:00", "10:00:00"))
    assert.NoError(t, err)
}

func TestCreateBookingIgnoresTerminalStates(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    require.NoError(t, f.engine.CancelBooking(ctx, r.ID, "meeting moved", ""))

    _, err = f.engine.CreateBooking(ctx, params(1, "222-22-2222", "09:00:00", "10:00:00"))
    assert.NoError(t, err, "cancelled reservation must release the slot")
}

func TestCreateBookingUnknownRoom(t *testing.T) {
    f := newEngineFixture(t)
    _, err := f.engine.CreateBooking(context.Background(), params(99, "111-11-1111", "09:00:00", "10:00:00"))
    assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreateBookingBlacklistedRequester(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    require.NoError(t, f.blacklist.Insert(ctx, "111-11-1111", f.clock.Now()))
    _, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    assert.ErrorIs(t, err, ErrBlacklisted)
}

func TestCreateBookingInvalidInterval(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    _, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "10:00:00", "10:00:00"))
    assert.ErrorIs(t, err, ErrInvalidInterval, "zero-length interval")
    _, err = f.engine.CreateBooking(ctx, params(1, "111-11-1111", "11:00:00", "10:00:00"))
    assert.ErrorIs(t, err, ErrInvalidInterval, "inverted interval")
    _, err = f.engine.CreateBooking(ctx, CreateParams{RoomID: 1, RequesterSSN: "111-11-1111", Day: "not-a-date", Start: "09:00:00", End: "10:00:00"})
    assert.ErrorIs(t, err, ErrInvalidInterval, "malformed day")
}

func TestApproveBooking(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(2, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)

    require.NoError(t, f.engine.ApproveBooking(ctx, r.ID))
    got, err := f.store.ByID(ctx, r.ID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusBooked, got.Status)

    assert.ErrorIs(t, f.engine.ApproveBooking(ctx, r.ID), ErrNotPending, "second approval")
}

func TestApproveBookingStandardRoomRefused(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    assert.ErrorIs(t, f.engine.ApproveBooking(ctx, r.ID), ErrInvalidState)
}

func TestApproveBookingNotFound(t *testing.T) {
    f := newEngineFixture(t)
    assert.ErrorIs(t, f.engine.ApproveBooking(context.Background(), 424242), ErrReservationNotFound)
}

func TestCancelBooking(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)

    require.NoError(t, f.engine.CancelBooking(ctx, r.ID, "meeting moved", ""))
    got, err := f.store.ByID(ctx, r.ID)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, got.Status)

    rec, err := f.engine.CancellationReason(ctx, r.ID)
    require.NoError(t, err)
    assert.Equal(t, "meeting moved", rec.Reason)
    assert.Empty(t, rec.StaffSSN)
    assert.Equal(t, []uint64{r.ID}, f.sink.cancelled)
}

func TestCancelBookingRequiresReason(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    assert.ErrorIs(t, f.engine.CancelBooking(ctx, r.ID, "   ", ""), ErrReasonRequired)
}

func TestCancelBookingIdempotencyGuard(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    require.NoError(t, f.engine.CancelBooking(ctx, r.ID, "meeting moved", ""))

    assert.ErrorIs(t, f.engine.CancelBooking(ctx, r.ID, "again", ""), ErrAlreadyCancelled)
    rec, err := f.engine.CancellationReason(ctx, r.ID)
    require.NoError(t, err)
    assert.Equal(t, "meeting moved", rec.Reason, "first record must be preserved")
}

func TestCancelBookingRecordsStaff(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(2, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    require.NoError(t, f.engine.CancelBooking(ctx, r.ID, "room maintenance", "999-99-9999"))
    rec, err := f.engine.CancellationReason(ctx, r.ID)
    require.NoError(t, err)
    assert.Equal(t, "999-99-9999", rec.StaffSSN)
}

func TestCancelBookingCheckedInRefused(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    _, err = f.engine.ConfirmCheckIn(ctx, r.ID, false)
    require.NoError(t, err)
    assert.ErrorIs(t, f.engine.CancelBooking(ctx, r.ID, "too late", ""), ErrInvalidState)
}

func TestConfirmCheckIn(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)

    got, err := f.engine.ConfirmCheckIn(ctx, r.ID, false)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCheckedIn, got.Status)
    require.NotNil(t, got.CheckInAt)
    assert.Equal(t, f.clock.Now().UTC(), *got.CheckInAt)

    _, err = f.engine.ConfirmCheckIn(ctx, r.ID, false)
    assert.ErrorIs(t, err, ErrInvalidState, "double check-in")
}

func TestConfirmCheckInPendingApproval(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(2, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)

    _, err = f.engine.ConfirmCheckIn(ctx, r.ID, false)
    assert.ErrorIs(t, err, ErrInvalidState, "self check-in on pending approval")

    got, err := f.engine.ConfirmCheckIn(ctx, r.ID, true)
    require.NoError(t, err)
    assert.Equal(t, model.StatusCheckedIn, got.Status)
}

func TestConfirmCheckInTerminalStates(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    require.NoError(t, f.engine.CancelBooking(ctx, r.ID, "meeting moved", ""))

    _, err = f.engine.ConfirmCheckIn(ctx, r.ID, true)
    assert.ErrorIs(t, err, ErrInvalidState, "cancelled reservation, even as admin")
}

func TestListForRequester(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    _, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    _, err = f.engine.CreateBooking(ctx, params(1, "111-11-1111", "11:00:00", "12:00:00"))
    require.NoError(t, err)
    _, err = f.engine.CreateBooking(ctx, params(1, "222-22-2222", "13:00:00", "14:00:00"))
    require.NoError(t, err)

    mine, err := f.engine.ListForRequester(ctx, "111-11-1111")
    require.NoError(t, err)
    assert.Len(t, mine, 2)
}

func TestCancellationReasonWithoutCancel(t *testing.T) {
    f := newEngineFixture(t)
    ctx := context.Background()
    r, err := f.engine.CreateBooking(ctx, params(1, "111-11-1111", "09:00:00", "10:00:00"))
    require.NoError(t, err)
    _, err = f.engine.CancellationReason(ctx, r.ID)
    assert.ErrorIs(t, err, ErrNoCancellation)
}
