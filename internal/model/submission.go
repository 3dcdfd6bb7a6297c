package model

import "time"

// SubmissionStatus tracks a submission's lifecycle.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "PENDING"
	StatusSubmitted SubmissionStatus = "SUBMITTED"
	StatusGraded    SubmissionStatus = "GRADED"
)

// Submission is a student's answer to a task. One per (task, student),
// enforced by a unique constraint. Grading may be repeated; the last
// write wins and no history is kept.
type Submission struct {
	ID           int              `json:"id"`
	TaskID       int              `json:"task_id"`
	StudentID    int              `json:"student_id"`
	Content      string           `json:"content"`
	Status       SubmissionStatus `json:"status"`
	PointsEarned *int             `json:"points_earned"`
	Feedback     *string          `json:"feedback"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	GradedAt     *time.Time       `json:"graded_at"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Student *UserSummary     `json:"student,omitempty"`
	Task    *TaskRef         `json:"task,omitempty"`
	Files   []SubmissionFile `json:"files,omitempty"`
}

// TaskRef is the minimal task projection nested in submissions.
type TaskRef struct {
	Title     string `json:"title"`
	MaxPoints int    `json:"max_points"`
}

// SubmissionSummary is the compact projection used in task lists.
type SubmissionSummary struct {
	Status       SubmissionStatus `json:"status"`
	PointsEarned *int             `json:"points_earned"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

// SubmissionFile records a file attached to a submission. The bytes
// live on local disk; only metadata is stored.
type SubmissionFile struct {
	ID           int       `json:"id"`
	SubmissionID int       `json:"submission_id"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"file_path"`
	FileSize     int64     `json:"file_size"`
	FileType     string    `json:"file_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// UploadedFile is the metadata returned by the upload endpoint and
// accepted back in a submission payload.
type UploadedFile struct {
	FileName     string `json:"file_name" binding:"required"`
	OriginalName string `json:"original_name" binding:"required"`
	FilePath     string `json:"file_path" binding:"required"`
	FileSize     int64  `json:"file_size" binding:"required,min=1"`
	FileType     string `json:"file_type" binding:"required"`
}

// SubmitTaskRequest is the payload for submitting a task. At least one
// of Content or Files must be present.
type SubmitTaskRequest struct {
	Content string         `json:"content" binding:"omitempty,max=50000"`
	Files   []UploadedFile `json:"files" binding:"omitempty,dive"`
}

// GradeSubmissionRequest is the payload for grading a submission.
type GradeSubmissionRequest struct {
	PointsEarned *int   `json:"points_earned" binding:"required,min=0"`
	Feedback     string `json:"feedback" binding:"omitempty,max=5000"`
}
