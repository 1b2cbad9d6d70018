package handler

import (
	"errors"
	"net/http"

	"github.com/hostelops/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

// toHTTPError translates service-level business errors into echo HTTP errors.
// Unknown errors become a 500 and keep their message for the central error
// handler to report.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRentalMode),
		errors.Is(err, service.ErrInvalidBedCount),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrDuplicateRoom),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrEntryDateInPast),
		errors.Is(err, service.ErrCheckOutBeforeCheckIn),
		errors.Is(err, service.ErrCheckOutInFuture):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyCheckedIn),
		errors.Is(err, service.ErrNotCheckedIn),
		errors.Is(err, service.ErrAlreadyCheckedOut),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrLockedAfterCheckIn),
		errors.Is(err, service.ErrNotEditable),
		errors.Is(err, service.ErrNotDeletable),
		errors.Is(err, service.ErrRoomInUse),
		errors.Is(err, service.ErrCapacityExceeded):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
