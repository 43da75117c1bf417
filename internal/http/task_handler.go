package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-agent/internal/domain"
	"todo-agent/internal/service"
)

// TaskHandler mantiene dependencias para los endpoints CRUD de tareas.
type TaskHandler struct {
	logger  *zap.Logger
	taskSvc *service.TaskService
}

func NewTaskHandler(logger *zap.Logger, taskSvc *service.TaskService) *TaskHandler {
	return &TaskHandler{logger: logger, taskSvc: taskSvc}
}

type taskPayload struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Category    *string    `json:"category"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	SortOrder   *int       `json:"sort_order"`
}

// ListTasks maneja GET /api/tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var completed *bool
	if raw, exists := c.GetQuery("completed"); exists {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid completed filter"})
			return
		}
		completed = &v
	}

	tasks, err := h.taskSvc.ListTasks(c.Request.Context(), claims.UserID, completed)
	if err != nil {
		h.logger.Error("list tasks failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list tasks"})
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}

// CreateTask maneja POST /api/tasks.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Category    string     `json:"category"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create task request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	task, err := h.taskSvc.CreateTask(c.Request.Context(), claims.UserID, domain.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrTaskInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task data"})
			return
		}
		h.logger.Error("create task failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetTask maneja GET /api/tasks/:id.
func (h *TaskHandler) GetTask(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskSvc.GetTask(c.Request.Context(), claims.UserID, taskID)
	if err != nil {
		h.respondTaskError(c, err, "get task failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask maneja PUT /api/tasks/:id.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req taskPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update task request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	task, err := h.taskSvc.UpdateTask(c.Request.Context(), claims.UserID, taskID, domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.respondTaskError(c, err, "update task failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask maneja DELETE /api/tasks/:id.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskSvc.DeleteTask(c.Request.Context(), claims.UserID, taskID); err != nil {
		h.respondTaskError(c, err, "delete task failed")
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleTask maneja PATCH /api/tasks/:id/complete.
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskSvc.ToggleTask(c.Request.Context(), claims.UserID, taskID)
	if err != nil {
		h.respondTaskError(c, err, "toggle task failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, service.ErrTaskInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task data"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseTaskID(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taskID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return taskID, true
}
