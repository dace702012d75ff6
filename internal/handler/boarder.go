package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/model"
	"github.com/iliyamo/hostel-seat-allocation/internal/service"
)

// BoarderHandler serves /boarders.
type BoarderHandler struct {
	Svc *service.BoarderService
	Log *zap.Logger
}

type registerBoarderRequest struct {
	Name         string `json:"name" form:"name" validate:"required"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	DOB          string `json:"dob" form:"dob" validate:"required"`
	Phone        string `json:"phone" form:"phone" validate:"required"`
	Photo        string `json:"photo" form:"photo"`
	AadharCard   string `json:"aadharCard" form:"aadharCard"`
	IsStudent    *bool  `json:"isStudent" form:"isStudent" validate:"required"`
	Organisation string `json:"organisation" form:"organisation"`
	ParentName   string `json:"parentName" form:"parentName" validate:"required"`
	ParentNumber string `json:"parentNumber" form:"parentNumber" validate:"required"`
}

type pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type boarderListResponse struct {
	Success    bool                    `json:"success"`
	Data       []model.BoarderListItem `json:"data"`
	Pagination pagination              `json:"pagination"`
}

// Register handles POST /boarders.
func (h *BoarderHandler) Register(c echo.Context) error {
	var req registerBoarderRequest
	if err := bindValid(c, &req, "All required fields must be filled"); err != nil {
		return fail(c, h.Log, "register boarder", err, "")
	}

	ctx, cancel := opContext(c)
	defer cancel()
	b, err := h.Svc.Register(ctx, model.Boarder{
		Name:         req.Name,
		Email:        req.Email,
		DOB:          req.DOB,
		Phone:        req.Phone,
		PhotoURL:     req.Photo,
		IDCardURL:    req.AadharCard,
		IsStudent:    *req.IsStudent,
		Organisation: req.Organisation,
		ParentName:   req.ParentName,
		ParentNumber: req.ParentNumber,
	})
	if err != nil {
		return fail(c, h.Log, "register boarder", err, "Failed to register boarder")
	}
	return ok(c, http.StatusCreated, "Hostel boarder registered successfully", b)
}

// List handles GET /boarders?page=&limit=&search=.  Unparseable paging
// values fall back to the defaults.
func (h *BoarderHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := opContext(c)
	defer cancel()
	res, err := h.Svc.List(ctx, model.BoarderQuery{Page: page, Limit: limit, Search: c.QueryParam("search")})
	if err != nil {
		return fail(c, h.Log, "list boarders", err, "Failed to fetch boarders")
	}
	items := res.Items
	if items == nil {
		items = []model.BoarderListItem{}
	}
	return c.JSON(http.StatusOK, boarderListResponse{
		Success: true,
		Data:    items,
		Pagination: pagination{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
	})
}

// Get handles GET /boarders/:boarderId.
func (h *BoarderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "boarderId", "Invalid Boarder ID")
	if err != nil {
		return fail(c, h.Log, "get boarder", err, "")
	}
	ctx, cancel := opContext(c)
	defer cancel()
	b, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(c, h.Log, "get boarder", err, "Failed to fetch boarder")
	}
	return ok(c, http.StatusOK, "", b)
}
