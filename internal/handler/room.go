package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/service"
)

// RoomHandler serves the rooms of a hostel.
type RoomHandler struct {
	Rooms *service.RoomRegistry
	Log   *zap.Logger
}

type roomListResponse struct {
	Success    bool         `json:"success"`
	TotalRooms int          `json:"totalRooms"`
	Data       []model.Room `json:"data"`
}

type addRoomRequest struct {
	RoomNo       string   `json:"roomNo" validate:"required"`
	SeatAllocate *int     `json:"seatAllocate" validate:"required"`
	SeatLabels   []string `json:"seatLabels"`
	SeatNumbers  []string `json:"seatNumbers"`
}

// List handles GET /hostels/:hostelId/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	return h.list(c, false)
}

// Available handles GET /hostels/:hostelId/rooms/available.
func (h *RoomHandler) Available(c echo.Context) error {
	return h.list(c, true)
}

func (h *RoomHandler) list(c echo.Context, onlyVacant bool) error {
	hostelID, err := pathID(c, "hostelId", "Invalid Hostel ID")
	if err != nil {
		return fail(c, h.Log, "list rooms", err, "")
	}
	var rooms []model.Room
	ctx, cancel := opContext(c)
	defer cancel()
	if onlyVacant {
		rooms, err = h.Rooms.GetAvailableRooms(ctx, hostelID)
	} else {
		rooms, err = h.Rooms.ListRooms(ctx, hostelID)
	}
	if err != nil {
		return fail(c, h.Log, "list rooms", err, "Failed to fetch rooms")
	}
	return c.JSON(http.StatusOK, roomListResponse{Success: true, TotalRooms: len(rooms), Data: rooms})
}

// Add handles PATCH /hostels/:hostelId/rooms.
func (h *RoomHandler) Add(c echo.Context) error {
	hostelID, err := pathID(c, "hostelId", "Invalid Hostel ID")
	if err != nil {
		return fail(c, h.Log, "add room", err, "")
	}
	var req addRoomRequest
	if err := bindValid(c, &req, "Room number, seat allocate and seatLabels are required"); err != nil {
		return fail(c, h.Log, "add room", err, "")
	}
	labels := req.SeatLabels
	if labels == nil {
		labels = req.SeatNumbers
	}
	if labels == nil {
		return fail(c, h.Log, "add room", apperr.Validation("Room number, seat allocate and seatLabels are required"), "")
	}
	if *req.SeatAllocate < 0 {
		return fail(c, h.Log, "add room", apperr.Validation("Seat allocate cannot be negative"), "")
	}

	ctx, cancel := opContext(c)
	defer cancel()
	room, err := h.Rooms.AddRoom(ctx, hostelID, req.RoomNo, labels)
	if err != nil {
		return fail(c, h.Log, "add room", err, "Failed to add room")
	}
	return ok(c, http.StatusOK, "Room added successfully", room)
}

// Delete handles DELETE /hostels/:hostelId/rooms/:roomId.
func (h *RoomHandler) Delete(c echo.Context) error {
	hostelID, err := pathID(c, "hostelId", "Invalid ID provided")
	if err != nil {
		return fail(c, h.Log, "delete room", err, "")
	}
	roomID, err := pathID(c, "roomId", "Invalid ID provided")
	if err != nil {
		return fail(c, h.Log, "delete room", err, "")
	}
	ctx, cancel := opContext(c)
	defer cancel()
	if err := h.Rooms.DeleteRoom(ctx, hostelID, roomID); err != nil {
		return fail(c, h.Log, "delete room", err, "Failed to delete room")
	}
	return ok(c, http.StatusOK, "Room deleted successfully", nil)
}

// AvailableSeats handles GET /rooms/:roomId/seats/available.
func (h *RoomHandler) AvailableSeats(c echo.Context) error {
	roomID, err := pathID(c, "roomId", "Invalid Room ID")
	if err != nil {
		return fail(c, h.Log, "available seats", err, "")
	}
	ctx, cancel := opContext(c)
	defer cancel()
	room, err := h.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		return fail(c, h.Log, "available seats", err, "Failed to fetch seats")
	}
	return ok(c, http.StatusOK, "", map[string]any{
		"roomId":   room.ID,
		"hostelId": room.HostelID,
		"roomNo":   room.RoomNo,
		"seats":    service.GetAvailableSeats(room),
	})
}
