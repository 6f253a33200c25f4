package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/burrowlab/burrowtrack/internal/service"
	"github.com/burrowlab/burrowtrack/pkg/response"
)

// AnalysisTaskHandler handles HTTP requests for analysis tasks
type AnalysisTaskHandler struct {
	service *service.AnalysisTaskService
}

// NewAnalysisTaskHandler creates a new analysis task handler
func NewAnalysisTaskHandler(service *service.AnalysisTaskService) *AnalysisTaskHandler {
	return &AnalysisTaskHandler{service: service}
}

// CreateTaskRequest represents the request body for creating an analysis task
type CreateTaskRequest struct {
	SkillName string                 `json:"skill_name" binding:"required"`
	TaskType  string                 `json:"task_type" binding:"required"` // INCREMENTAL or FULL_RECOMPUTE
	SessionID int64                  `json:"session_id"`                   // 0 = all computed sessions
	Params    map[string]interface{} `json:"params"`
}

// CreateTask handles POST /api/admin/analysis/tasks
func (h *AnalysisTaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Set by the auth middleware from the token subject.
	createdBy := c.GetString("user")
	if createdBy == "" {
		createdBy = "admin"
	}

	task, err := h.service.CreateTask(req.SkillName, req.TaskType, req.SessionID, req.Params, createdBy)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to create task", err)
		return
	}

	response.Success(c, task)
}

// GetTask handles GET /api/admin/analysis/tasks/:id
func (h *AnalysisTaskHandler) GetTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID", err)
		return
	}

	task, err := h.service.GetTask(id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Task not found", err)
		return
	}

	response.Success(c, task)
}

// ListTasks handles GET /api/admin/analysis/tasks
func (h *AnalysisTaskHandler) ListTasks(c *gin.Context) {
	skillName := c.Query("skill_name")
	status := c.Query("status")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	tasks, err := h.service.ListTasks(skillName, status, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	response.Success(c, gin.H{
		"data":  tasks,
		"count": len(tasks),
	})
}

// GetProgress handles GET /api/admin/analysis/tasks/:id/progress
func (h *AnalysisTaskHandler) GetProgress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID", err)
		return
	}

	progress, err := h.service.GetProgress(id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Task not found", err)
		return
	}

	response.Success(c, progress)
}
