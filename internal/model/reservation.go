package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// The numeric values match the status column stored in the database.
// Transitions between states are validated by the booking engine; the
// repository layer treats the value as an opaque small integer.
type ReservationStatus uint8

const (
    StatusBooked          ReservationStatus = 1 // confirmed booking awaiting check-in
    StatusExpired         ReservationStatus = 2 // no check-in within the grace window
    StatusCheckedIn       ReservationStatus = 3 // attendance confirmed
    StatusPendingApproval ReservationStatus = 4 // VIP room booking awaiting admin approval
    StatusCancelled       ReservationStatus = 5 // cancelled by requester or staff
)

// String returns a human readable name for the status.  Unknown values
// render as "unknown" rather than panicking so that logging a corrupt
// row never takes the process down.
func (s ReservationStatus) String() string {
    switch s {
    case StatusBooked:
        return "BOOKED"
    case StatusExpired:
        return "EXPIRED"
    case StatusCheckedIn:
        return "CHECKED_IN"
    case StatusPendingApproval:
        return "PENDING_APPROVAL"
    case StatusCancelled:
        return "CANCELLED"
    }
    return "unknown"
}

// Terminal reports whether the status permits no further transitions.
func (s ReservationStatus) Terminal() bool {
    return s == StatusExpired || s == StatusCheckedIn || s == StatusCancelled
}

// ActiveStatuses lists the states that occupy a room for overlap
// purposes.  Cancelled and expired reservations never conflict with a
// new booking.
func ActiveStatuses() []ReservationStatus {
    return []ReservationStatus{StatusBooked, StatusCheckedIn, StatusPendingApproval}
}

// Reservation records an employee's booking of a conference room for a
// time interval on a given day.  Rows are never physically deleted;
// cancelled and expired reservations are retained as history.
//
// Fields:
//  ID           – 6-digit random identifier (reservations.id).
//  RoomID       – room being reserved.
//  RequesterSSN – employee who made the booking.
//  BookingDate  – calendar day of the reservation.
//  StartTime    – start of the reserved interval (UTC).
//  EndTime      – end of the reserved interval (UTC); always after StartTime.
//  Status       – lifecycle state, see ReservationStatus.
//  CheckInAt    – when attendance was confirmed (nil until check-in).
//  QRToken      – opaque confirmation token handed to the client.
//  CreatedAt    – creation timestamp.
type Reservation struct {
    ID           uint64             // reservations.id
    RoomID       uint64             // reservations.room_id
    RequesterSSN string             // reservations.requester_ssn
    BookingDate  time.Time          // reservations.booking_date
    StartTime    time.Time          // reservations.start_time
    EndTime      time.Time          // reservations.end_time
    Status       ReservationStatus  // reservations.status
    CheckInAt    *time.Time         // reservations.check_in_at (nullable)
    QRToken      string             // reservations.qr_token
    CreatedAt    time.Time          // reservations.created_at
}
