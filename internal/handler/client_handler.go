package handler

import (
	"errors"
	"net/http"

	"github.com/hostelops/reservation-service/internal/dto"
	"github.com/hostelops/reservation-service/internal/models"
	"github.com/hostelops/reservation-service/internal/repository"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ClientHandler exposes the client registry. Thin enough that it talks to the
// repository directly.
type ClientHandler struct {
	repo repository.ClientRepository
}

func NewClientHandler(repo repository.ClientRepository) *ClientHandler {
	return &ClientHandler{repo: repo}
}

func (h *ClientHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req dto.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	client := &models.Client{Name: req.Name, Document: req.Document, Phone: req.Phone}
	if err := h.repo.Create(c.Request().Context(), client); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	client, err := h.repo.FindByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "client not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.repo.FindAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, clients)
}
