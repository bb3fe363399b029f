package booking

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// fixedClock returns a settable time for deterministic tests.
type fixedClock struct {
    mu  sync.Mutex
    now time.Time
}

func newFixedClock(t time.Time) *fixedClock { return &fixedClock{now: t} }

func (c *fixedClock) Now() time.Time {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.now = c.now.Add(d)
}

// memStore is an in-memory ReservationStore mirroring the semantics of
// the MySQL repository, conditional transitions included.
type memStore struct {
    mu           sync.Mutex
    nextID       uint64
    reservations map[uint64]model.Reservation
    cancels      map[uint64]model.CancellationRecord
    nextCancelID uint64
}

func newMemStore() *memStore {
    return &memStore{
        nextID:       100000,
        reservations: make(map[uint64]model.Reservation),
        cancels:      make(map[uint64]model.CancellationRecord),
        nextCancelID: 1,
    }
}

func (s *memStore) Create(ctx context.Context, r *model.Reservation) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    r.ID = s.nextID
    s.nextID++
    s.reservations[r.ID] = *r
    return nil
}

func (s *memStore) ByID(ctx context.Context, id uint64) (model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    r, ok := s.reservations[id]
    if !ok {
        return model.Reservation{}, ErrReservationNotFound
    }
    return r, nil
}

func (s *memStore) HasOverlap(ctx context.Context, roomID uint64, day, start, end time.Time) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, r := range s.reservations {
        if r.RoomID != roomID || !r.BookingDate.Equal(day) {
            continue
        }
        active := false
        for _, st := range model.ActiveStatuses() {
            if r.Status == st {
                active = true
                break
            }
        }
        if !active {
            continue
        }
        if r.StartTime.Before(end) && r.EndTime.After(start) {
            return true, nil
        }
    }
    return false, nil
}

func (s *memStore) Transition(ctx context.Context, id uint64, from []model.ReservationStatus, to model.ReservationStatus, checkInAt *time.Time) (int64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    r, ok := s.reservations[id]
    if !ok {
        return 0, nil
    }
    matched := false
    for _, f := range from {
        if r.Status == f {
            matched = true
            break
        }
    }
    if !matched {
        return 0, nil
    }
    r.Status = to
    if checkInAt != nil {
        t := *checkInAt
        r.CheckInAt = &t
    }
    s.reservations[id] = r
    return 1, nil
}

func (s *memStore) Cancel(ctx context.Context, id uint64, from []model.ReservationStatus, rec *model.CancellationRecord) (int64, error) {
    n, err := s.Transition(ctx, id, from, model.StatusCancelled, nil)
    if err != nil || n == 0 {
        return n, err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    rec.ID = s.nextCancelID
    s.nextCancelID++
    s.cancels[rec.ReservationID] = *rec
    return n, nil
}

func (s *memStore) ListByRequester(ctx context.Context, ssn string) ([]model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Reservation
    for _, r := range s.reservations {
        if r.RequesterSSN == ssn {
            out = append(out, r)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
    return out, nil
}

func (s *memStore) ListAll(ctx context.Context, roomID *uint64) ([]model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Reservation
    for _, r := range s.reservations {
        if roomID != nil && r.RoomID != *roomID {
            continue
        }
        out = append(out, r)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
    return out, nil
}

func (s *memStore) DueForExpiry(ctx context.Context, after, upTo time.Time) ([]model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Reservation
    for _, r := range s.reservations {
        if r.Status != model.StatusBooked || r.CheckInAt != nil {
            continue
        }
        if r.StartTime.After(after) && !r.StartTime.After(upTo) {
            out = append(out, r)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s *memStore) LockRoom(ctx context.Context, roomID uint64) (func(), error) {
    return func() {}, nil
}

// ByReservation implements CancellationStore over the same map the
// Cancel method writes.
func (s *memStore) ByReservation(ctx context.Context, reservationID uint64) (model.CancellationRecord, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    rec, ok := s.cancels[reservationID]
    if !ok {
        return model.CancellationRecord{}, ErrNoCancellation
    }
    return rec, nil
}

// memRooms is a fixed set of rooms keyed by id.
type memRooms map[uint64]model.Room

func (m memRooms) ByID(ctx context.Context, id uint64) (model.Room, error) {
    r, ok := m[id]
    if !ok {
        return model.Room{}, ErrRoomNotFound
    }
    return r, nil
}

// memEmployees tracks the strike counters per SSN.
type memEmployees struct {
    mu       sync.Mutex
    noShow   map[string]uint32
    locks    map[string]uint32
    late     map[string]uint32
    statuses map[string]uint8
}

func newMemEmployees() *memEmployees {
    return &memEmployees{
        noShow:   make(map[string]uint32),
        locks:    make(map[string]uint32),
        late:     make(map[string]uint32),
        statuses: make(map[string]uint8),
    }
}

func (m *memEmployees) IncrementNoShow(ctx context.Context, ssn string) (uint32, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.noShow[ssn]++
    return m.noShow[ssn], nil
}

func (m *memEmployees) IncrementLockCount(ctx context.Context, ssn string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.locks[ssn]++
    return nil
}

func (m *memEmployees) IncrementLateCheckin(ctx context.Context, ssn string) (uint32, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.late[ssn]++
    return m.late[ssn], nil
}

func (m *memEmployees) SetStatus(ctx context.Context, ssn string, status uint8) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.statuses[ssn] = status
    return nil
}

// memBlacklist is an in-memory BlacklistStore.
type memBlacklist struct {
    mu      sync.Mutex
    entries map[string]time.Time
}

func newMemBlacklist() *memBlacklist {
    return &memBlacklist{entries: make(map[string]time.Time)}
}

func (m *memBlacklist) Exists(ctx context.Context, ssn string) (bool, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    _, ok := m.entries[ssn]
    return ok, nil
}

func (m *memBlacklist) Insert(ctx context.Context, ssn string, at time.Time) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.entries[ssn] = at
    return nil
}

func (m *memBlacklist) Delete(ctx context.Context, ssn string) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    delete(m.entries, ssn)
    return nil
}

func (m *memBlacklist) List(ctx context.Context) ([]BlacklistDetail, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    out := make([]BlacklistDetail, 0, len(m.entries))
    var id uint64 = 1
    for ssn, at := range m.entries {
        out = append(out, BlacklistDetail{ID: id, SSN: ssn, LockedAt: at})
        id++
    }
    sort.Slice(out, func(i, j int) bool { return out[i].LockedAt.After(out[j].LockedAt) })
    return out, nil
}

// memAtomic satisfies Atomic for tests.  The in-memory stores are
// already serialized by their own mutexes, so InTx simply hands the
// live stores to fn.
type memAtomic struct {
    reservations *memStore
    employees    *memEmployees
    blacklist    *memBlacklist
}

func (a memAtomic) InTx(ctx context.Context, fn func(SweepStores) error) error {
    return fn(SweepStores{
        Reservations: a.reservations,
        Employees:    a.employees,
        Blacklist:    a.blacklist,
    })
}

// recordingSink captures published events for assertions.
type recordingSink struct {
    mu        sync.Mutex
    expired   []uint64
    cancelled []uint64
}

func (r *recordingSink) BookingExpired(ctx context.Context, res model.Reservation) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.expired = append(r.expired, res.ID)
    return nil
}

func (r *recordingSink) BookingCancelled(ctx context.Context, res model.Reservation, reason string) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    r.cancelled = append(r.cancelled, res.ID)
    return nil
}
