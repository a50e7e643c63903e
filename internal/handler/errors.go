package handler

import (
	"errors"
	"net/http"

	"github.com/hallhub/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

// httpError maps service sentinels onto HTTP status codes. Anything
// unrecognized is a 500 with a generic message so internal store errors
// never leak.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrHallNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrHallUnavailable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrSlotOverlap),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrHallHasBookings):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrStoreTimeout):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
