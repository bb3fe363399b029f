package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/model"
)

// RoomRepo provides read access to the rooms table and implements
// booking.RoomStore.  Room CRUD itself is reference data managed
// elsewhere; the booking core only needs existence and category.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// ByID loads one room.  Returns booking.ErrRoomNotFound when the room
// does not exist.
func (r *RoomRepo) ByID(ctx context.Context, id uint64) (model.Room, error) {
    const q = `SELECT id, name, category_id, capacity, building, floor FROM rooms WHERE id = ?`
    var room model.Room
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &room.ID, &room.Name, &room.CategoryID, &room.Capacity, &room.Building, &room.Floor,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return model.Room{}, booking.ErrRoomNotFound
    }
    if err != nil {
        return model.Room{}, err
    }
    return room, nil
}

// List returns all rooms ordered by building then name, for the
// booking form's room picker.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
    const q = `SELECT id, name, category_id, capacity, building, floor FROM rooms ORDER BY building, name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        var room model.Room
        if err := rows.Scan(&room.ID, &room.Name, &room.CategoryID, &room.Capacity, &room.Building, &room.Floor); err != nil {
            return nil, err
        }
        out = append(out, room)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
