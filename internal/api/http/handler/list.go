package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/tasklane-server/internal/api/http/middleware"
	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
	"github.com/dmarkhas/tasklane-server/internal/service"
)

// ListHandler exposes task list CRUD over HTTP.
type ListHandler struct {
	lists  *service.List
	logger *logger.Logger
}

func NewList(lists *service.List, logger *logger.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

type createListRequest struct {
	Name string `json:"name"`
}

type listResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func newListResponse(l model.List) listResponse {
	return listResponse{ID: l.ID, Name: l.Name, Position: l.Position, CreatedAt: l.CreatedAt}
}

func (h *ListHandler) List(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	lists, err := h.lists.List(c.Request().Context(), user.ID)
	if err != nil {
		return handleError(c, err)
	}

	out := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, newListResponse(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"lists": out})
}

func (h *ListHandler) Create(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createListRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	list, err := h.lists.Create(c.Request().Context(), user.ID, req.Name)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"list": newListResponse(list)})
}

func (h *ListHandler) Delete(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}

	if err := h.lists.Delete(c.Request().Context(), id, user.ID); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
