package handler

import (
    "errors"   // errors.Is comparisons against booking sentinels
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters
    "time"     // response formatting

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/room-reservation/internal/booking" // lifecycle engine and domain errors
    "github.com/iliyamo/room-reservation/internal/model"   // reservation and room structs
)

// BookingHandler exposes the self-service booking operations.  All
// methods assume JWT authentication has already run; the requester's
// SSN is read from the context.  Domain rule violations map to precise
// HTTP statuses so the dashboard can show an actionable message.
type BookingHandler struct {
    Engine *booking.Engine
}

// NewBookingHandler constructs a BookingHandler around the engine.
func NewBookingHandler(engine *booking.Engine) *BookingHandler {
    if engine == nil {
        panic("nil engine passed to NewBookingHandler")
    }
    return &BookingHandler{Engine: engine}
}

type createBookingReq struct {
    RoomID    uint64 `json:"room_id"`
    Date      string `json:"date"`       // "2006-01-02"
    StartTime string `json:"start_time"` // "15:04:05"
    EndTime   string `json:"end_time"`   // "15:04:05"
}

// reservationResponse is the wire shape of a reservation.
type reservationResponse struct {
    ID        uint64  `json:"id"`
    RoomID    uint64  `json:"room_id"`
    Requester string  `json:"requester_ssn"`
    Date      string  `json:"date"`
    StartTime string  `json:"start_time"`
    EndTime   string  `json:"end_time"`
    Status    string  `json:"status"`
    CheckInAt *string `json:"check_in_at,omitempty"`
    QRToken   string  `json:"qr_token"`
}

func toReservationResponse(r model.Reservation) reservationResponse {
    resp := reservationResponse{
        ID:        r.ID,
        RoomID:    r.RoomID,
        Requester: r.RequesterSSN,
        Date:      r.BookingDate.Format("2006-01-02"),
        StartTime: r.StartTime.UTC().Format(time.RFC3339),
        EndTime:   r.EndTime.UTC().Format(time.RFC3339),
        Status:    r.Status.String(),
        QRToken:   r.QRToken,
    }
    if r.CheckInAt != nil {
        iso := r.CheckInAt.UTC().Format(time.RFC3339)
        resp.CheckInAt = &iso
    }
    return resp
}

// Create handles POST /v1/bookings.  The requester books a room for an
// interval on a day; VIP rooms come back in PENDING_APPROVAL.  Failure
// reasons are distinguished: 404 unknown room, 403 blacklisted, 409
// overlap, 400 malformed interval.
func (h *BookingHandler) Create(c echo.Context) error {
    ssn, err := requesterSSN(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createBookingReq
    if err := c.Bind(&req); err != nil || req.RoomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    res, err := h.Engine.CreateBooking(c.Request().Context(), booking.CreateParams{
        RoomID:       req.RoomID,
        RequesterSSN: ssn,
        Day:          req.Date,
        Start:        req.StartTime,
        End:          req.EndTime,
    })
    switch {
    case err == nil:
    case errors.Is(err, booking.ErrInvalidInterval):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start time must be before end time"})
    case errors.Is(err, booking.ErrRoomNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
    case errors.Is(err, booking.ErrBlacklisted):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "you are blacklisted and cannot book rooms"})
    case errors.Is(err, booking.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for this interval"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"booking": toReservationResponse(res)})
}

// Cancel handles POST /v1/bookings/:id/cancel.  Self-service
// cancellation requires a reason and is only permitted on the caller's
// own reservation.  Cancelling twice returns 409 without writing a
// second record.
func (h *BookingHandler) Cancel(c echo.Context) error {
    ssn, err := requesterSSN(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var req struct {
        Reason string `json:"reason"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    ctx := c.Request().Context()
    res, err := h.Engine.Reservations.ByID(ctx, id)
    if err != nil {
        if errors.Is(err, booking.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if res.RequesterSSN != ssn {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    // staff ssn stays empty for self-service cancellations
    err = h.Engine.CancelBooking(ctx, id, req.Reason, "")
    switch {
    case err == nil:
    case errors.Is(err, booking.ErrReasonRequired):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
    case errors.Is(err, booking.ErrAlreadyCancelled):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
    case errors.Is(err, booking.ErrInvalidState):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be cancelled"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

// Confirm handles POST /v1/bookings/:id/confirm.  Self-service check-in
// accepts only a Booked reservation owned by the caller; anything else
// (pending approval, expired, cancelled, already checked in) is 409.
func (h *BookingHandler) Confirm(c echo.Context) error {
    ssn, err := requesterSSN(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    ctx := c.Request().Context()
    res, err := h.Engine.Reservations.ByID(ctx, id)
    if err != nil {
        if errors.Is(err, booking.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if res.RequesterSSN != ssn {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    updated, err := h.Engine.ConfirmCheckIn(ctx, id, false)
    switch {
    case err == nil:
    case errors.Is(err, booking.ErrInvalidState):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be confirmed in its current state"})
    case errors.Is(err, booking.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": toReservationResponse(updated)})
}

// MyBookings handles GET /v1/my-bookings.  It returns the caller's
// reservations, most recent first; an empty array when none exist.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    ssn, err := requesterSSN(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Engine.ListForRequester(c.Request().Context(), ssn)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    out := make([]reservationResponse, 0, len(items))
    for _, r := range items {
        out = append(out, toReservationResponse(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Status handles GET /v1/bookings/:id/status.  The QR confirmation
// page polls it to render the booking's current state.
func (h *BookingHandler) Status(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    res, err := h.Engine.Reservations.ByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, booking.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": toReservationResponse(res)})
}

// CancelReason handles GET /v1/bookings/:id/cancel-reason.  Returns the
// cancellation record for a cancelled booking, 404 otherwise.
func (h *BookingHandler) CancelReason(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    rec, err := h.Engine.CancellationReason(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, booking.ErrNoCancellation) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no cancellation found for this booking"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "cancel_id": rec.ID,
        "reason":    rec.Reason,
        "staff_ssn": rec.StaffSSN,
    })
}
