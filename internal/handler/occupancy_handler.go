package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/hostelops/reservation-service/internal/dto"
	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type OccupancyHandler struct {
	svc service.OccupancyService
}

func NewOccupancyHandler(svc service.OccupancyService) *OccupancyHandler {
	return &OccupancyHandler{svc: svc}
}

func (h *OccupancyHandler) RegisterRoutes(occupancy, dashboard *echo.Group) {
	occupancy.GET("", h.List)
	occupancy.GET("/:id", h.Room)
	dashboard.GET("/summary", h.Summary)
}

// asOf reads the optional as_of query param, defaulting to today.
func asOf(c echo.Context) (time.Time, error) {
	t, err := parseDateQuery(c.QueryParam("as_of"))
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid as_of")
	}
	if t == nil {
		return time.Now(), nil
	}
	return *t, nil
}

func (h *OccupancyHandler) List(c echo.Context) error {
	date, err := asOf(c)
	if err != nil {
		return err
	}

	var group *string
	if raw := c.QueryParam("group"); raw != "" {
		group = &raw
	}
	var status *models.OccupancyStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := models.OccupancyStatus(strings.ToLower(raw))
		status = &s
	}

	occ, err := h.svc.ListOccupancy(c.Request().Context(), date, group, status)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.RoomOccupancyResponse, len(occ))
	for i := range occ {
		resp[i] = dto.ToRoomOccupancyResponse(&occ[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OccupancyHandler) Room(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	date, err := asOf(c)
	if err != nil {
		return err
	}

	occ, err := h.svc.RoomOccupancy(c.Request().Context(), id, date)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomOccupancyResponse(occ))
}

func (h *OccupancyHandler) Summary(c echo.Context) error {
	date, err := asOf(c)
	if err != nil {
		return err
	}

	snap, err := h.svc.FleetSnapshot(c.Request().Context(), date)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToDashboardResponse(snap))
}
