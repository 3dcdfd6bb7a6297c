package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/classtrack/classtrack-backend/internal/middleware"
	"github.com/classtrack/classtrack-backend/internal/response"
	"github.com/classtrack/classtrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UploadHandler handles submission attachment uploads.
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload godoc
// POST /api/v1/tasks/:id/uploads (student only, multipart form)
// Stores files and returns the metadata to include in a submission.
// Files not referenced by a submission are reclaimed by the sweeper.
func (h *UploadHandler) Upload(c *gin.Context) {
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

	form, err := c.MultipartForm()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	files, err := h.uploadService.SaveSubmissionFiles(*user, taskID, form.File["files"])
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFiles):
			response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"files": files})
}
