package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/service"
)

// AllocationHandler serves /allocations.
type AllocationHandler struct {
	Svc *service.AllocationService
	Log *zap.Logger
}

type allocateRequest struct {
	BoarderID uint64 `json:"boarderId" validate:"required"`
	HostelID  uint64 `json:"hostelId" validate:"required"`
	RoomID    uint64 `json:"roomId" validate:"required"`
	RoomNo    string `json:"roomNo" validate:"required"`
	SeatLabel string `json:"seatLabel"`
	// older clients send seatNumber
	SeatNumber string `json:"seatNumber"`
}

// Allocate handles POST /allocations.  A new allocation answers 201, a
// move of an allocated boarder 200.
func (h *AllocationHandler) Allocate(c echo.Context) error {
	var req allocateRequest
	if err := bindValid(c, &req, "All fields are required"); err != nil {
		return fail(c, h.Log, "allocate", err, "")
	}
	if req.SeatLabel == "" {
		req.SeatLabel = req.SeatNumber
	}

	ctx, cancel := opContext(c)
	defer cancel()
	a, outcome, err := h.Svc.Allocate(ctx, service.AllocateInput{
		BoarderID: req.BoarderID,
		HostelID:  req.HostelID,
		RoomID:    req.RoomID,
		RoomNo:    req.RoomNo,
		SeatLabel: req.SeatLabel,
	})
	if err != nil {
		return fail(c, h.Log, "allocate", err, "Something went wrong")
	}
	if outcome == model.OutcomeMoved {
		return ok(c, http.StatusOK, "Room updated successfully", a)
	}
	return ok(c, http.StatusCreated, "Room allocated successfully", a)
}

// Details handles GET /allocations/:boarderId.
func (h *AllocationHandler) Details(c echo.Context) error {
	id, err := pathID(c, "boarderId", "Invalid Boarder ID")
	if err != nil {
		return fail(c, h.Log, "allocation details", err, "")
	}
	ctx, cancel := opContext(c)
	defer cancel()
	d, err := h.Svc.GetAllocationDetails(ctx, id)
	if err != nil {
		return fail(c, h.Log, "allocation details", err, "Failed to fetch allocation details")
	}
	return ok(c, http.StatusOK, "", d)
}

// Deallocate handles PATCH /allocations/:boarderId.
func (h *AllocationHandler) Deallocate(c echo.Context) error {
	id, err := pathID(c, "boarderId", "Invalid Boarder ID")
	if err != nil {
		return fail(c, h.Log, "deallocate", err, "")
	}
	ctx, cancel := opContext(c)
	defer cancel()
	if err := h.Svc.Deallocate(ctx, id); err != nil {
		return fail(c, h.Log, "deallocate", err, "Failed to disallocate room")
	}
	return ok(c, http.StatusOK, "Room vacated successfully", nil)
}
