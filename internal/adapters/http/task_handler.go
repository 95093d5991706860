package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harmonysync/backend/internal/application/services"
	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
	"github.com/harmonysync/backend/internal/ports"
)

// TaskHandler handles task and task list requests.
type TaskHandler struct {
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTaskLists returns every task list.
func (h *TaskHandler) ListTaskLists(c echo.Context) error {
	lists, err := h.taskService.ListTaskLists(c.Request().Context())
	if err != nil {
		h.logger.Error("List tasklists failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, lists)
}

// ListTasks returns the tasks of the list named by the list_id query
// parameter. A missing list_id is a 400 regardless of store contents.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	listID := c.QueryParam("list_id")

	tasks, err := h.taskService.ListTasks(c.Request().Context(), listID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a task in a list.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return entities.NewValidationError("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return entities.NewValidationError(err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		Title:   req.Title,
		DueDate: req.Due,
		DueTime: req.Time,
		ListID:  req.ListID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, TaskResponse{
		Message: "Task created successfully",
		Task:    task,
	})
}

// UpdateTask applies a partial update to a task.
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return entities.NewValidationError("invalid request body")
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), c.Param("id"), ports.UpdateTaskInput{
		Title:   req.Title,
		DueDate: req.Due,
		DueTime: req.Time,
		Status:  req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TaskResponse{
		Message: "Task updated successfully",
		Task:    task,
	})
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// CompletedCount returns how many tasks are completed across all lists.
func (h *TaskHandler) CompletedCount(c echo.Context) error {
	count, err := h.taskService.CompletedCount(c.Request().Context())
	if err != nil {
		h.logger.Error("Counting completed tasks failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, CompletedCountResponse{CompletedTasksCount: count})
}
