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

// TaskHandler exposes task CRUD over HTTP.
type TaskHandler struct {
	tasks  *service.Task
	logger *logger.Logger
}

func NewTask(tasks *service.Task, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type createTaskRequest struct {
	Title    string  `json:"title"`
	Notes    *string `json:"notes"`
	DueDate  *string `json:"due_date"`
	ListID   *int64  `json:"list_id"`
	ParentID *int64  `json:"parent_id"`
}

type updateTaskRequest struct {
	Title     *string `json:"title"`
	Notes     *string `json:"notes"`
	DueDate   *string `json:"due_date"`
	Completed *bool   `json:"completed"`
	Position  *int    `json:"position"`
	ListID    *int64  `json:"list_id"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	ListID      *int64     `json:"list_id"`
	Title       string     `json:"title"`
	Notes       *string    `json:"notes"`
	DueDate     *string    `json:"due_date"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Position    int        `json:"position"`
	ParentID    *int64     `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newTaskResponse(t model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		ListID:      t.ListID,
		Title:       t.Title,
		Notes:       t.Notes,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		Position:    t.Position,
		ParentID:    t.ParentID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// List returns the caller's top-level tasks, optionally filtered by
// ?list_id=.
func (h *TaskHandler) List(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var listID *int64
	if raw := c.QueryParam("list_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list_id"})
		}
		listID = &id
	}

	tasks, err := h.tasks.List(c.Request().Context(), user.ID, listID)
	if err != nil {
		return handleError(c, err)
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskResponse(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": out})
}

func (h *TaskHandler) Get(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}

	task, err := h.tasks.Get(c.Request().Context(), id, user.ID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"task": newTaskResponse(task)})
}

func (h *TaskHandler) Create(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	task, err := h.tasks.Create(c.Request().Context(), model.Task{
		UserID:   user.ID,
		ListID:   req.ListID,
		Title:    req.Title,
		Notes:    req.Notes,
		DueDate:  req.DueDate,
		ParentID: req.ParentID,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"task": newTaskResponse(task)})
}

func (h *TaskHandler) Update(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	task, err := h.tasks.Update(c.Request().Context(), id, user.ID, model.TaskUpdate{
		Title:     req.Title,
		Notes:     req.Notes,
		DueDate:   req.DueDate,
		Completed: req.Completed,
		Position:  req.Position,
		ListID:    req.ListID,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"task": newTaskResponse(task)})
}

func (h *TaskHandler) Delete(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	id, err := taskID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}

	if err := h.tasks.Delete(c.Request().Context(), id, user.ID); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func taskID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
