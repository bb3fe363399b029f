package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/booking"
)

// AdminBookingHandler exposes the administrative side of the booking
// lifecycle: the full reservation list, VIP approval, check-in
// confirmation on behalf of an employee, staff cancellation, and the
// manually triggered sweep endpoints.  The router guards every route
// here with the ADMIN role.
type AdminBookingHandler struct {
    Engine  *booking.Engine
    Sweeper *booking.Sweeper
}

// NewAdminBookingHandler constructs an AdminBookingHandler.
func NewAdminBookingHandler(engine *booking.Engine, sweeper *booking.Sweeper) *AdminBookingHandler {
    if engine == nil || sweeper == nil {
        panic("nil dependency passed to NewAdminBookingHandler")
    }
    return &AdminBookingHandler{Engine: engine, Sweeper: sweeper}
}

// List handles GET /v1/admin/bookings.  An optional room_id query
// parameter narrows the list to one room.
func (h *AdminBookingHandler) List(c echo.Context) error {
    var roomID *uint64
    if raw := c.QueryParam("room_id"); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || id == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
        }
        roomID = &id
    }
    items, err := h.Engine.Reservations.ListAll(c.Request().Context(), roomID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    out := make([]reservationResponse, 0, len(items))
    for _, r := range items {
        out = append(out, toReservationResponse(r))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Approve handles POST /v1/admin/bookings/:id/approve.  Moves a VIP
// reservation from pending approval to booked.
func (h *AdminBookingHandler) Approve(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    err = h.Engine.ApproveBooking(c.Request().Context(), id)
    switch {
    case err == nil:
    case errors.Is(err, booking.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, booking.ErrInvalidState):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not for a VIP room"})
    case errors.Is(err, booking.ErrNotPending):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending approval"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to approve booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "booking approved"})
}

// Confirm handles POST /v1/admin/bookings/:id/confirm.  Unlike the
// self-service path this also accepts a reservation still pending
// approval, covering the front-desk case where the employee shows up
// before the approval click landed.
func (h *AdminBookingHandler) Confirm(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    updated, err := h.Engine.ConfirmCheckIn(c.Request().Context(), id, true)
    switch {
    case err == nil:
    case errors.Is(err, booking.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, booking.ErrInvalidState):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be confirmed in its current state"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm booking"})
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": toReservationResponse(updated)})
}

// Cancel handles POST /v1/admin/bookings/:id/cancel.  The acting
// admin's SSN is recorded on the cancellation so the record shows who
// cancelled on the employee's behalf.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
    staff, err := requesterSSN(c)
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
    err = h.Engine.CancelBooking(c.Request().Context(), id, req.Reason, staff)
    switch {
    case err == nil:
    case errors.Is(err, booking.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
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

// TriggerSweep handles POST /v1/admin/sweep.  Runs one expiry pass
// immediately instead of waiting for the next tick.
func (h *AdminBookingHandler) TriggerSweep(c echo.Context) error {
    if err := h.Sweeper.Sweep(c.Request().Context()); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sweep failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "sweep completed"})
}

// LateCheckins handles POST /v1/admin/late-checkins.  Runs the
// alternate no-show pass that feeds the late check-in counter.
func (h *AdminBookingHandler) LateCheckins(c echo.Context) error {
    expired, err := h.Sweeper.SweepLateCheckins(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "late check-in sweep failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "late check-in sweep completed", "expired": expired})
}
