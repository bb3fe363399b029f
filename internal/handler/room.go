package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/repository"
)

// RoomHandler serves the room list for the booking form.
type RoomHandler struct {
    Rooms *repository.RoomRepo
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
    if rooms == nil {
        panic("nil repo passed to NewRoomHandler")
    }
    return &RoomHandler{Rooms: rooms}
}

type roomResponse struct {
    ID       uint64 `json:"id"`
    Name     string `json:"name"`
    Category string `json:"category"`
    Capacity uint32 `json:"capacity"`
    Building string `json:"building"`
    Floor    int32  `json:"floor"`
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
    rooms, err := h.Rooms.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
    }
    out := make([]roomResponse, 0, len(rooms))
    for _, r := range rooms {
        category := "STANDARD"
        if r.CategoryID == model.RoomCategoryVIP {
            category = "VIP"
        }
        out = append(out, roomResponse{
            ID:       r.ID,
            Name:     r.Name,
            Category: category,
            Capacity: r.Capacity,
            Building: r.Building,
            Floor:    r.Floor,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
