// handlers_tasks.go - Weekly task list handlers
package api

import (
	"net/http"
	"strings"

	"github.com/amimagid/ami-super-app/internal/calendar"
	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/labstack/echo/v4"
)

// TaskHandlerImpl implements the TaskHandler interface
type TaskHandlerImpl struct {
	store    TaskStore
	notifier Notifier
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(store TaskStore, notifier Notifier) *TaskHandlerImpl {
	return &TaskHandlerImpl{store: store, notifier: notifier}
}

func parseTaskType(s string) (models.TaskType, *APIError) {
	if s == "" {
		return models.TaskTypeWork, nil
	}
	t := models.TaskType(strings.ToLower(s))
	if !t.Valid() {
		return "", NewValidationError("taskType")
	}
	return t, nil
}

// HandleListTasks returns one week's tasks of one type
func (h *TaskHandlerImpl) HandleListTasks(c echo.Context) error {
	weekStart := c.QueryParam("weekStart")
	if weekStart == "" {
		return NewBadRequestError("weekStart parameter is required", nil)
	}
	taskType, apiErr := parseTaskType(c.QueryParam("taskType"))
	if apiErr != nil {
		return apiErr
	}

	tasks, err := h.store.ListTasks(c.Request().Context(), weekStart, taskType)
	if err != nil {
		return NewInternalError("failed to fetch tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title     string  `json:"title"`
	WeekStart string  `json:"weekStart"`
	Deadline  *string `json:"deadline"`
	TaskType  string  `json:"taskType"`
}

// HandleCreateTask adds a task
func (h *TaskHandlerImpl) HandleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if strings.TrimSpace(req.Title) == "" || req.WeekStart == "" {
		return NewBadRequestError("title and weekStart are required", nil)
	}
	if _, err := calendar.ParseDate(req.WeekStart); err != nil {
		return NewValidationError("weekStart")
	}
	if req.Deadline != nil && *req.Deadline == "" {
		req.Deadline = nil
	}
	if req.Deadline != nil {
		if _, err := calendar.ParseDate(*req.Deadline); err != nil {
			return NewValidationError("deadline")
		}
	}
	taskType, apiErr := parseTaskType(req.TaskType)
	if apiErr != nil {
		return apiErr
	}

	task := models.Task{
		Title:     strings.TrimSpace(req.Title),
		WeekStart: req.WeekStart,
		Deadline:  req.Deadline,
		TaskType:  taskType,
	}
	if err := h.store.CreateTask(c.Request().Context(), &task); err != nil {
		return NewInternalError("failed to create task", err)
	}
	h.publish("created", task.ID)
	return c.JSON(http.StatusCreated, task)
}

// HandleUpdateTask changes title, completion or deadline
func (h *TaskHandlerImpl) HandleUpdateTask(c echo.Context) error {
	id := c.Param("id")
	var patch models.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if patch.Title.Set && (patch.Title.Value == nil || strings.TrimSpace(*patch.Title.Value) == "") {
		return NewValidationError("title")
	}
	if patch.Deadline.Value != nil && *patch.Deadline.Value == "" {
		patch.Deadline.Value = nil
	}
	if patch.Deadline.Value != nil {
		if _, err := calendar.ParseDate(*patch.Deadline.Value); err != nil {
			return NewValidationError("deadline")
		}
	}

	task, err := h.store.UpdateTask(c.Request().Context(), id, &patch)
	if err != nil {
		return storeError(err, "task", id, "failed to update task")
	}
	h.publish("updated", id)
	return c.JSON(http.StatusOK, task)
}

// HandleDeleteTask removes a task
func (h *TaskHandlerImpl) HandleDeleteTask(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.DeleteTask(c.Request().Context(), id); err != nil {
		return storeError(err, "task", id, "failed to delete task")
	}
	h.publish("deleted", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (h *TaskHandlerImpl) publish(action, id string) {
	if h.notifier != nil {
		h.notifier.Publish(EventTasksChanged, map[string]string{"action": action, "id": id})
	}
}
