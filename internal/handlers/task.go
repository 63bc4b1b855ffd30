package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/collabhub/collabhub-api/internal/apierrors"
	"github.com/collabhub/collabhub-api/internal/dto"
	"github.com/collabhub/collabhub-api/internal/middleware"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns a page of the current user's tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	page := utils.ListPageFromQuery(c)
	tasks, total, err := h.taskService.ListForUser(userID, page.Offset(), page.Size)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      dto.ToTaskDTOs(tasks),
		"pagination": page.Meta(total),
	})
}

// ListTasksByStatus returns a page of the current user's tasks in the given
// status.
func (h *TaskHandler) ListTasksByStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	page := utils.ListPageFromQuery(c)
	status := models.TaskStatus(c.Param("status"))
	tasks, total, err := h.taskService.ListForUserByStatus(userID, status, page.Offset(), page.Size)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      dto.ToTaskDTOs(tasks),
		"pagination": page.Meta(total),
	})
}

// GetTask returns a task the current user is assigned to.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.Get(c.Param("id"), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task authored by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title         string            `json:"title" binding:"required,max=100"`
		Description   string            `json:"description" binding:"max=255"`
		Status        models.TaskStatus `json:"status"`
		StartAt       *time.Time        `json:"start_at"`
		EndAt         *time.Time        `json:"end_at"`
		AssignedUsers []string          `json:"assigned_users"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(actor, services.CreateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		AssignedUserIDs: req.AssignedUsers,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask edits a task the current user is assigned to.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateTaskRequest struct {
		Title         *string            `json:"title"`
		Description   *string            `json:"description"`
		Status        *models.TaskStatus `json:"status"`
		StartAt       *time.Time         `json:"start_at"`
		EndAt         *time.Time         `json:"end_at"`
		AssignedUsers []string           `json:"assigned_users"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(c.Param("id"), userID, services.UpdateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
		AssignedUserIDs: req.AssignedUsers,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. The mutation policy has already run in
// RequireTaskMutatePermission.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	if err := h.taskService.Delete(task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrHigherRoleInvolved),
		errors.Is(err, services.ErrNotTaskCreator):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
