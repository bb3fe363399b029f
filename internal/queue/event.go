// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingExpiredEvent is published when the sweeper expires a
// reservation whose requester never checked in.  Downstream consumers
// use it for logging and notification without querying the primary
// database.
type BookingExpiredEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    RoomID        uint64 `json:"room_id"`
    RequesterSSN  string `json:"requester_ssn"`
    BookingDate   string `json:"booking_date"`
    StartTime     string `json:"start_time"`
    EndTime       string `json:"end_time"`
    ExpiredAt     string `json:"expired_at"`
}

// BookingCancelledEvent is published when a reservation is cancelled
// by its requester or by staff.
type BookingCancelledEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    RoomID        uint64 `json:"room_id"`
    RequesterSSN  string `json:"requester_ssn"`
    Reason        string `json:"reason"`
    CancelledAt   string `json:"cancelled_at"`
}
