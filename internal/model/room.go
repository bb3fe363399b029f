package model

// Room category identifiers as stored in rooms.category_id.  VIP rooms
// require admin approval before a booking becomes active.
const (
    RoomCategoryStandard uint8 = 1
    RoomCategoryVIP      uint8 = 2
)

// Room represents a bookable conference room.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the room.
//  CategoryID – room category (standard or VIP).
//  Capacity   – number of seats in the room.
//  Building   – building code the room is located in.
//  Floor      – floor number within the building.
type Room struct {
    ID         uint64 // rooms.id
    Name       string // rooms.name
    CategoryID uint8  // rooms.category_id
    Capacity   uint32 // rooms.capacity
    Building   string // rooms.building
    Floor      int32  // rooms.floor
}

// IsVIP reports whether bookings for this room require approval.
func (r Room) IsVIP() bool { return r.CategoryID == RoomCategoryVIP }
