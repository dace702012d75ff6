// Package handler holds the echo handlers.  Every response uses the
// {success, message, data} envelope, and every error goes through fail,
// which maps the apperr kind to a status code.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/apperr"
)

// opTimeout bounds the storage work of one request.
const opTimeout = 5 * time.Second

func opContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), opTimeout)
}

// Envelope is the response body of every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: msg, Data: data})
}

// statusOf maps an error kind to its HTTP status.  Conflicts are 400 to
// match what the UI expects for "already booked" style rejections.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuth:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// fail writes the error response.  Unclassified errors are logged with
// op and reported as a generic failure message.
func fail(c echo.Context, log *zap.Logger, op string, err error, generic string) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error(op+" failed",
			zap.Error(err),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return c.JSON(status, Envelope{Success: false, Message: generic})
	}
	return c.JSON(status, Envelope{Success: false, Message: apperr.Message(err, generic)})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name, invalidMsg string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation(invalidMsg)
	}
	return id, nil
}

// bindValid binds the request body and runs the struct validator.  Any
// failure becomes a validation error carrying msg.
func bindValid(c echo.Context, dst any, msg string) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation(msg)
	}
	if err := c.Validate(dst); err != nil {
		return apperr.Validation(msg)
	}
	return nil
}
