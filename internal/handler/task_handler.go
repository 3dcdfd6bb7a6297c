package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/classtrack/classtrack-backend/internal/middleware"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/response"
	"github.com/classtrack/classtrack-backend/internal/service"
	"github.com/classtrack/classtrack-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List godoc
// GET /api/v1/tasks?subject_id=
// Teachers see submission counts for tasks they created; students see
// tasks from their enrolled subjects with their own submission state.
func (h *TaskHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	var filter model.TaskFilter
	if raw := c.Query("subject_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		filter.SubjectID = id
	}

	if user.Role == model.RoleTeacher {
		tasks, err := h.taskService.ListForTeacher(c.Request.Context(), user.ID, filter)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
		return
	}

	tasks, err := h.taskService.ListForStudent(c.Request.Context(), user.ID, filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
}

// Create godoc
// POST /api/v1/tasks (teacher only, own subject)
func (h *TaskHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	var req model.CreateTaskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), *user, req)
	if err != nil {
		h.failTask(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"task": task})
}

// Get godoc
// GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), *user, id)
	if err != nil {
		h.failTask(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// Update godoc
// PUT /api/v1/tasks/:id (owning teacher only)
// Absent fields keep their current values.
func (h *TaskHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateTaskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), *user, id, req)
	if err != nil {
		h.failTask(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"task": task})
}

// Delete godoc
// DELETE /api/v1/tasks/:id (owning teacher only)
func (h *TaskHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), *user, id); err != nil {
		h.failTask(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "task deleted successfully"})
}

func (h *TaskHandler) failTask(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
