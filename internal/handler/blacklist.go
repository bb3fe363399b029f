package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/repository"
)

// BlacklistHandler exposes the strike ledger to administrators: the
// current blacklist, manual unlock, and the per-employee strike
// statistics.  ADMIN role only.
type BlacklistHandler struct {
    Ledger    *booking.Ledger
    Employees *repository.EmployeeRepo
}

// NewBlacklistHandler constructs a BlacklistHandler.
func NewBlacklistHandler(ledger *booking.Ledger, employees *repository.EmployeeRepo) *BlacklistHandler {
    if ledger == nil || employees == nil {
        panic("nil dependency passed to NewBlacklistHandler")
    }
    return &BlacklistHandler{Ledger: ledger, Employees: employees}
}

// List handles GET /v1/admin/blacklist.
func (h *BlacklistHandler) List(c echo.Context) error {
    items, err := h.Ledger.ListBlacklist(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blacklist"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Unlock handles POST /v1/admin/blacklist/:ssn/unlock.  Removes the
// active blacklist entry and leaves the strike counters as they are, so
// the next third strike locks the employee again.
func (h *BlacklistHandler) Unlock(c echo.Context) error {
    ssn := c.Param("ssn")
    if ssn == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "ssn is required"})
    }
    if err := h.Ledger.Unlock(c.Request().Context(), ssn); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to unlock employee"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "employee unlocked"})
}

// StrikeStats handles GET /v1/admin/strike-stats.  Lists every employee
// with at least one no-show strike or lock, heaviest offenders first.
func (h *BlacklistHandler) StrikeStats(c echo.Context) error {
    stats, err := h.Employees.StrikeStats(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load strike statistics"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": stats})
}
