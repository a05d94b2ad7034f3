package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kama326/task-manager/internal/dto"
	apierrors "github.com/kama326/task-manager/internal/errors"
	"github.com/kama326/task-manager/internal/middleware"
	"github.com/kama326/task-manager/internal/models"
	"github.com/kama326/task-manager/internal/services"
	"github.com/kama326/task-manager/internal/utils"
	"github.com/kama326/task-manager/internal/validation"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's visible tasks, newest first.
// Supports an optional status filter and pagination.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		UserID:     userID,
		Pagination: params,
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// CreateTask creates a task for the caller. created_by always comes from
// the session; any created_by or created_at in the payload is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		AssignedTo  *uint64    `json:"assigned_to"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, errs, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatus(req.Status),
		Priority:     models.TaskPriority(req.Priority),
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedTo,
		CreatedByID:  userID,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to create task")
		return
	}
	if errs.Has() {
		apierrors.ValidationFailed(c, errs)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns one task. Out-of-scope IDs 404 through the same
// visibility-filtered query used for listing.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask partially updates a task within the caller's scope
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	bindErrs := validation.New()
	var input services.UpdateTaskInput
	input.Title = optionalString(rawReq, "title", bindErrs)
	input.Description = optionalString(rawReq, "description", bindErrs)
	if v := optionalString(rawReq, "status", bindErrs); v != nil {
		status := models.TaskStatus(*v)
		input.Status = &status
	}
	if v := optionalString(rawReq, "priority", bindErrs); v != nil {
		priority := models.TaskPriority(*v)
		input.Priority = &priority
	}
	if raw, sent := rawReq["due_date"]; sent {
		if raw == nil {
			input.ClearDueDate = true
		} else if s, ok := raw.(string); ok {
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				bindErrs.Add("due_date", validation.MsgBadDatetime)
			} else {
				input.DueDate = &parsed
			}
		} else {
			bindErrs.Add("due_date", validation.MsgBadDatetime)
		}
	}
	if raw, sent := rawReq["assigned_to"]; sent {
		if raw == nil {
			input.ClearAssignedTo = true
		} else if f, ok := raw.(float64); ok {
			id := uint64(f)
			input.AssignedToID = &id
		} else {
			bindErrs.Add("assigned_to", validation.MsgBadPk)
		}
	}
	if bindErrs.Has() {
		apierrors.ValidationFailed(c, bindErrs)
		return
	}

	task, errs, err := h.taskService.UpdateTask(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	if errs.Has() {
		apierrors.ValidationFailed(c, errs)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task within the caller's scope
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkMove updates every in-scope task from one status to another
func (h *TaskHandler) BulkMove(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type BulkMoveRequest struct {
		FromStatus string `json:"from_status"`
		ToStatus   string `json:"to_status"`
	}

	var req BulkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	count, errs, err := h.taskService.BulkMove(userID, req.FromStatus, req.ToStatus)
	if err != nil {
		apierrors.InternalError(c, "Failed to move tasks")
		return
	}
	if errs.Has() {
		apierrors.ValidationFailed(c, errs)
		return
	}

	c.JSON(http.StatusOK, gin.H{"moved": count})
}

// BulkDelete removes every in-scope task with the given status
func (h *TaskHandler) BulkDelete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type BulkDeleteRequest struct {
		Status string `json:"status"`
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	count, errs, err := h.taskService.BulkDelete(userID, req.Status)
	if err != nil {
		apierrors.InternalError(c, "Failed to delete tasks")
		return
	}
	if errs.Has() {
		apierrors.ValidationFailed(c, errs)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": count})
}

// parseTaskID reads the :id path segment. A non-numeric id can never
// match a row, so it gets the same 404 as a missing one.
func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return 0, false
	}
	return taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
