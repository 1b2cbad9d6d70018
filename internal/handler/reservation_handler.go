package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hostelops/reservation-service/internal/dto"
	"github.com/hostelops/reservation-service/internal/middleware"
	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/hostelops/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/checkin", h.CheckIn)
	g.POST("/:id/checkout", h.CheckOut)
	g.PUT("/:id/status/:status", h.SetStatus)
	g.PUT("/:id", h.Edit)
	g.DELETE("/:id", h.Delete)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}
	return uint(id), nil
}

// parseDateQuery accepts YYYY-MM-DD or RFC3339 query values.
func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *ReservationHandler) Create(c echo.Context) error {
	var req dto.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ClientID == 0 || req.RoomID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "client_id and room_id are required")
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "check_in and check_out are required")
	}

	res, err := h.svc.Create(c.Request().Context(), service.CreateReservationInput{
		ClientID: req.ClientID,
		RoomID:   req.RoomID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Mode:     models.RentalMode(req.Mode),
		Beds:     req.Beds,
		ActorID:  middleware.ActorID(c),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToReservationResponse(res))
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	res, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(res))
}

func (h *ReservationHandler) List(c echo.Context) error {
	var f repository.ReservationFilter

	if raw := c.QueryParam("client_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
		}
		id := uint(v)
		f.ClientID = &id
	}
	if raw := c.QueryParam("room_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid room_id")
		}
		id := uint(v)
		f.RoomID = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.ReservationStatus(strings.ToLower(raw))
		f.Status = &status
	}
	var err error
	if f.MinCheckIn, err = parseDateQuery(c.QueryParam("min_check_in")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid min_check_in")
	}
	if f.MaxCheckOut, err = parseDateQuery(c.QueryParam("max_check_out")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid max_check_out")
	}

	list, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.ReservationResponse, len(list))
	for i := range list {
		resp[i] = dto.ToReservationResponse(&list[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) CheckIn(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	res, err := h.svc.CheckIn(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(res))
}

func (h *ReservationHandler) CheckOut(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.CheckOutRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
	}

	res, err := h.svc.CheckOut(c.Request().Context(), id, req.Date)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(res))
}

func (h *ReservationHandler) SetStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	target := models.ReservationStatus(strings.ToLower(c.Param("status")))

	res, err := h.svc.SetStatus(c.Request().Context(), id, target)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(res))
}

func (h *ReservationHandler) Edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	in := service.UpdateReservationInput{
		RoomID:   req.RoomID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Beds:     req.Beds,
	}
	if req.Mode != nil {
		mode := models.RentalMode(*req.Mode)
		in.Mode = &mode
	}

	res, err := h.svc.Edit(c.Request().Context(), id, in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(res))
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
