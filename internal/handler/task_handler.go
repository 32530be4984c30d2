package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/middleware"
	"taskpilot/internal/response"
	"taskpilot/internal/service"
	"taskpilot/internal/validation"
)

// TaskHandler handles the task CRUD endpoints. Every operation acts on
// behalf of the identity attached by the auth middleware.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request. Status and
// priority default to pending/medium when omitted.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date" validate:"omitempty,dateformat,futuredate"`
}

// UpdateTaskRequest represents a partial task update. A nil field is
// left unchanged; at least one field must be present.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Status      *string `json:"status" validate:"omitnil,oneof=pending in_progress completed"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *string `json:"due_date" validate:"omitnil,dateformat,futuredate"`
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, err.Error())
	}

	in := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     parseDueDate(req.DueDate),
	}

	task, err := h.taskService.Create(c.Request().Context(), middleware.Identity(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, http.StatusCreated, "Task created successfully", task)
}

// List godoc
// @Summary List the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (all for no filter)"
// @Param priority query string false "Filter by priority (all for no filter)"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	in := service.ListTasksInput{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Page:     page,
		Limit:    limit,
	}

	tasks, pagination, err := h.taskService.List(c.Request().Context(), middleware.Identity(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, http.StatusOK, "", echo.Map{
		"tasks":      tasks,
		"pagination": pagination,
	})
}

// Get godoc
// @Summary Fetch one task by id
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, apperrors.ErrTaskNotFound)
	}

	task, err := h.taskService.Get(c.Request().Context(), id, middleware.Identity(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, http.StatusOK, "", task)
}

// Update godoc
// @Summary Partially update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, apperrors.ErrTaskNotFound)
	}

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, http.StatusBadRequest, err.Error())
	}

	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.DueDate != nil {
		in.DueDate = parseDueDate(*req.DueDate)
	}

	task, err := h.taskService.Update(c.Request().Context(), id, middleware.Identity(c).UserID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.OK(c, http.StatusOK, "Task updated successfully", task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, apperrors.ErrTaskNotFound)
	}

	if err := h.taskService.Delete(c.Request().Context(), id, middleware.Identity(c).UserID); err != nil {
		return fail(c, err)
	}
	return response.OK(c, http.StatusOK, "Task deleted successfully", nil)
}

// taskID parses the :id path parameter. A non-numeric id is treated the
// same as a missing row.
func taskID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseDueDate converts an already-validated due date string. Empty
// input means no due date.
func parseDueDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := validation.ParseDueDate(s)
	if err != nil {
		return nil
	}
	return &t
}
