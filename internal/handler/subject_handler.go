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

// SubjectHandler handles subject and enrollment endpoints.
type SubjectHandler struct {
	subjectService *service.SubjectService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// List godoc
// GET /api/v1/subjects?q=&mine=
// Teachers may scope the list to their own subjects with mine=true.
func (h *SubjectHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	filter := model.SubjectFilter{Query: c.Query("q")}
	if c.Query("mine") == "true" && user.Role == model.RoleTeacher {
		filter.TeacherID = user.ID
	}

	subjects, err := h.subjectService.List(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// Create godoc
// POST /api/v1/subjects (teacher only)
func (h *SubjectHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.subjectService.Create(c.Request.Context(), *user, req)
	if err != nil {
		if errors.Is(err, service.ErrSubjectCodeTaken) {
			response.Fail(c, http.StatusBadRequest, response.ErrSubjectCodeExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"subject": subject})
}

// Get godoc
// GET /api/v1/subjects/:id
// Returns the subject with its enrollments and tasks.
func (h *SubjectHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	detail, err := h.subjectService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subject": detail})
}

// Update godoc
// PUT /api/v1/subjects/:id (owning teacher only)
func (h *SubjectHandler) Update(c *gin.Context) {
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

	var req model.UpdateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.subjectService.Update(c.Request.Context(), *user, id, req)
	if err != nil {
		h.failSubject(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// Delete godoc
// DELETE /api/v1/subjects/:id (owning teacher only)
// Removes the subject along with its tasks and enrollments.
func (h *SubjectHandler) Delete(c *gin.Context) {
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

	if err := h.subjectService.Delete(c.Request.Context(), *user, id); err != nil {
		h.failSubject(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "subject deleted successfully"})
}

// Enroll godoc
// POST /api/v1/subjects/:id/enroll (student only)
func (h *SubjectHandler) Enroll(c *gin.Context) {
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

	enrollment, err := h.subjectService.Enroll(c.Request.Context(), *user, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyEnrolled):
			response.Fail(c, http.StatusBadRequest, response.ErrAlreadyEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// Unenroll godoc
// DELETE /api/v1/subjects/:id/enroll (student only)
func (h *SubjectHandler) Unenroll(c *gin.Context) {
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

	if err := h.subjectService.Unenroll(c.Request.Context(), *user, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotEnrolled):
			// No enrollment record to delete.
			response.Fail(c, http.StatusNotFound, response.ErrNotEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "unenrolled successfully"})
}

func (h *SubjectHandler) failSubject(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
	case errors.Is(err, service.ErrSubjectCodeTaken):
		response.Fail(c, http.StatusBadRequest, response.ErrSubjectCodeExists)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
