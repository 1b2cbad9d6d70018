package middleware

import (
	"net/http"

	"github.com/hostelops/reservation-service/internal/dto"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as a {"message": ...} JSON body so the
// engine's typed failures reach clients in one consistent shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
