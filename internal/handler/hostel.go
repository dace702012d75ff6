package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
	"github.com/iliyamo/hostel-seat-allocation/internal/service"
)

// HostelHandler serves /hostels and /hostels-with-rooms.
type HostelHandler struct {
	Svc *service.HostelService
	Log *zap.Logger
}

type hostelRequest struct {
	Name       string `json:"name" form:"name"`
	TotalRooms *int   `json:"totalRooms" form:"totalRooms"`
}

func (r hostelRequest) input() (service.HostelInput, error) {
	if r.Name == "" || r.TotalRooms == nil {
		return service.HostelInput{}, apperr.Validation("Name and total rooms are required")
	}
	return service.HostelInput{Name: r.Name, TotalRooms: *r.TotalRooms}, nil
}

// List handles GET /hostels, newest first.
func (h *HostelHandler) List(c echo.Context) error {
	ctx, cancel := opContext(c)
	defer cancel()
	hostels, err := h.Svc.List(ctx)
	if err != nil {
		return fail(c, h.Log, "list hostels", err, "Failed to fetch hostels")
	}
	return ok(c, http.StatusOK, "", hostels)
}

// Create handles POST /hostels.
func (h *HostelHandler) Create(c echo.Context) error {
	var req hostelRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.Log, "create hostel", apperr.Validation("Invalid request body"), "")
	}
	in, err := req.input()
	if err != nil {
		return fail(c, h.Log, "create hostel", err, "")
	}

	ctx, cancel := opContext(c)
	defer cancel()
	hostel, err := h.Svc.Create(ctx, in)
	if err != nil {
		return fail(c, h.Log, "create hostel", err, "Failed to create hostel")
	}
	return ok(c, http.StatusCreated, "Hostel created successfully", hostel)
}

// Update handles PUT /hostels/:hostelId.
func (h *HostelHandler) Update(c echo.Context) error {
	id, err := pathID(c, "hostelId", "Invalid Hostel ID")
	if err != nil {
		return fail(c, h.Log, "update hostel", err, "")
	}
	var req hostelRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, h.Log, "update hostel", apperr.Validation("Invalid request body"), "")
	}
	in, err := req.input()
	if err != nil {
		return fail(c, h.Log, "update hostel", err, "")
	}

	ctx, cancel := opContext(c)
	defer cancel()
	hostel, err := h.Svc.Update(ctx, id, in)
	if err != nil {
		return fail(c, h.Log, "update hostel", err, "Failed to update hostel")
	}
	return ok(c, http.StatusOK, "Hostel updated successfully", hostel)
}

// Delete handles DELETE /hostels/:hostelId.  Rooms and allocations of the
// hostel are left in place.
func (h *HostelHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "hostelId", "Invalid Hostel ID")
	if err != nil {
		return fail(c, h.Log, "delete hostel", err, "")
	}
	ctx, cancel := opContext(c)
	defer cancel()
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(c, h.Log, "delete hostel", err, "Failed to delete hostel")
	}
	return ok(c, http.StatusOK, "Hostel deleted successfully", nil)
}

// WithRooms handles GET /hostels-with-rooms.
func (h *HostelHandler) WithRooms(c echo.Context) error {
	ctx, cancel := opContext(c)
	defer cancel()
	list, err := h.Svc.ListWithRooms(ctx)
	if err != nil {
		return fail(c, h.Log, "hostels with rooms", err, "Failed to fetch hostels with rooms")
	}
	return ok(c, http.StatusOK, "", list)
}
