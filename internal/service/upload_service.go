package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/google/uuid"
)

// Sentinel errors for uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrNoFiles             = errors.New("no files provided")
	ErrBadFileName         = errors.New("invalid attachment file name")
)

// allowedUploadTypes is the MIME allow-list for submission attachments.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain":                   true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// UploadService stores submission attachments on local disk. Each file
// is buffered fully per request; a crash mid-write leaves an orphaned
// file which the sweeper reclaims later.
type UploadService struct {
	cfg *config.Config
}

// NewUploadService creates a new UploadService.
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveSubmissionFiles validates and stores the uploaded files under
// uploads/submissions/<taskID>/<userID>/, returning the metadata the
// client passes back in the submission payload.
func (s *UploadService) SaveSubmissionFiles(user model.SessionUser, taskID int, files []*multipart.FileHeader) ([]model.UploadedFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	// Validate everything before writing anything.
	for _, h := range files {
		contentType := h.Header.Get("Content-Type")
		if !allowedUploadTypes[contentType] {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
		}
		if h.Size > s.cfg.MaxUploadBytes {
			return nil, fmt.Errorf("%w: %s (%d bytes, max %d)", ErrFileTooLarge, h.Filename, h.Size, s.cfg.MaxUploadBytes)
		}
	}

	relDir := filepath.Join("submissions", strconv.Itoa(taskID), strconv.Itoa(user.ID))
	destDir := filepath.Join(s.cfg.UploadDir, relDir)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	saved := make([]model.UploadedFile, 0, len(files))
	for _, h := range files {
		name := uuid.New().String() + filepath.Ext(h.Filename)
		if err := s.writeOne(h, filepath.Join(destDir, name)); err != nil {
			return nil, err
		}
		saved = append(saved, model.UploadedFile{
			FileName:     name,
			OriginalName: h.Filename,
			FilePath:     submissionFilePath(taskID, user.ID, name),
			FileSize:     h.Size,
			FileType:     h.Header.Get("Content-Type"),
		})
	}
	return saved, nil
}

// submissionFilePath is the canonical stored path for a submission
// attachment. Every persisted file_path is built here; client-supplied
// values are never stored.
func submissionFilePath(taskID, studentID int, name string) string {
	return "/uploads/" + path.Join("submissions", strconv.Itoa(taskID), strconv.Itoa(studentID), name)
}

// validAttachmentName reports whether name is a bare file name. The
// upload endpoint only ever generates such names, so anything carrying
// path elements is a forgery.
func validAttachmentName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return name == filepath.Base(name)
}

// DiskPath resolves a stored file path back to its on-disk location.
// Paths that would resolve outside the upload root are rejected.
func (s *UploadService) DiskPath(storedPath string) (string, error) {
	rel := strings.TrimPrefix(storedPath, "/uploads/")
	rel = filepath.Clean(filepath.FromSlash(rel))
	if !filepath.IsLocal(rel) {
		return "", ErrBadFileName
	}
	return filepath.Join(s.cfg.UploadDir, rel), nil
}

func (s *UploadService) writeOne(h *multipart.FileHeader, destPath string) error {
	src, err := h.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
