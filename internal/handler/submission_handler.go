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

// SubmissionHandler handles submission and grading endpoints.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	uploadService     *service.UploadService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, uploadService *service.UploadService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		uploadService:     uploadService,
	}
}

// Submit godoc
// POST /api/v1/tasks/:id/submissions (enrolled student only)
// One submission per student per task; rejected after the deadline.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitTaskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission, err := h.submissionService.Submit(c.Request.Context(), *user, taskID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		case errors.Is(err, service.ErrDeadlinePassed):
			response.Fail(c, http.StatusBadRequest, response.ErrDeadlinePassed)
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Fail(c, http.StatusBadRequest, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrEmptySubmission):
			response.Fail(c, http.StatusBadRequest, response.ErrEmptySubmission)
		case errors.Is(err, service.ErrBadFileName):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidFileName)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"submission": submission})
}

// List godoc
// GET /api/v1/tasks/:id/submissions
// The owning teacher sees every submission; a student sees only their own.
func (h *SubmissionHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	task, submissions, err := h.submissionService.ListForTask(c.Request.Context(), *user, taskID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotEnrolled):
			response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"task":        task,
		"submissions": submissions,
	})
}

// Grade godoc
// PUT /api/v1/tasks/:id/submissions/:submissionID/grade (owning teacher only)
// Regrading overwrites the previous grade.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	submissionID, err := strconv.Atoi(c.Param("submissionID"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GradeSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission, err := h.submissionService.Grade(c.Request.Context(), *user, taskID, submissionID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrPointsExceedMax):
			response.Fail(c, http.StatusBadRequest, response.ErrPointsExceedMax)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}

// DownloadFile godoc
// GET /api/v1/tasks/:id/submissions/:submissionID/files/:fileID
// Streams a submission attachment to its owner or the task's teacher.
func (h *SubmissionHandler) DownloadFile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	submissionID, err := strconv.Atoi(c.Param("submissionID"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	fileID, err := strconv.Atoi(c.Param("fileID"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	file, err := h.submissionService.FileForDownload(c.Request.Context(), *user, taskID, submissionID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrForbidden):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	diskPath, err := h.uploadService.DiskPath(file.FilePath)
	if err != nil {
		// A stored path that resolves outside the upload root is never
		// served.
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	c.FileAttachment(diskPath, file.OriginalName)
}
