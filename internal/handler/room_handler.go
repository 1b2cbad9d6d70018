package handler

import (
	"net/http"
	"strconv"

	"github.com/hostelops/reservation-service/internal/dto"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/hostelops/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type RoomHandler struct {
	svc service.RoomService
}

func NewRoomHandler(svc service.RoomService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

func (h *RoomHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/availability", h.Availability)
}

func (h *RoomHandler) bindRoom(c echo.Context) (*dto.RoomRequest, error) {
	var req dto.RoomRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Number <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "number must be greater than zero")
	}
	if req.BedCount <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "bed_count must be greater than zero")
	}
	return &req, nil
}

func (h *RoomHandler) Create(c echo.Context) error {
	req, err := h.bindRoom(c)
	if err != nil {
		return err
	}
	room, err := h.svc.Create(c.Request().Context(), service.CreateRoomInput{
		Number:   req.Number,
		BedCount: req.BedCount,
		Group:    req.Group,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	room, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) List(c echo.Context) error {
	var f repository.RoomFilter
	if raw := c.QueryParam("group"); raw != "" {
		f.Group = &raw
	}
	if raw := c.QueryParam("min_beds"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_beds")
		}
		f.MinBeds = &v
	}

	rooms, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		resp[i] = dto.ToRoomResponse(&rooms[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RoomHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := h.bindRoom(c)
	if err != nil {
		return err
	}
	room, err := h.svc.Update(c.Request().Context(), id, service.CreateRoomInput{
		Number:   req.Number,
		BedCount: req.BedCount,
		Group:    req.Group,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RoomHandler) Availability(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	start, err := parseDateQuery(c.QueryParam("start"))
	if err != nil || start == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start is required (YYYY-MM-DD)")
	}
	end, err := parseDateQuery(c.QueryParam("end"))
	if err != nil || end == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end is required (YYYY-MM-DD)")
	}

	var exclude uint
	if raw := c.QueryParam("exclude_reservation"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid exclude_reservation")
		}
		exclude = uint(v)
	}

	avail, err := h.svc.Availability(c.Request().Context(), id, *start, *end, exclude)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomAvailabilityResponse(avail))
}
