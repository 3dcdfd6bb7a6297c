package model

import "time"

// Task is an assignment inside a subject. DueDate is optional; a nil
// due date means submissions are accepted indefinitely.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	SubjectID   int        `json:"subject_id"`
	TeacherID   int        `json:"teacher_id"`
	DueDate     *time.Time `json:"due_date"`
	MaxPoints   int        `json:"max_points"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Subject *SubjectRef `json:"subject,omitempty"`
}

// SubjectRef is the minimal subject projection nested in tasks.
type SubjectRef struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

// TaskFilter enumerates the supported task list filters.
type TaskFilter struct {
	SubjectID int
}

// TaskForStudent pairs a task with the student's own submission, if any.
type TaskForStudent struct {
	Task
	Submission *SubmissionSummary `json:"submission"`
}

// SubmissionCounts aggregates submission statuses for a teacher's task list.
type SubmissionCounts struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Graded    int `json:"graded"`
}

// TaskForTeacher pairs a task with its submission status counts.
type TaskForTeacher struct {
	Task
	Submissions SubmissionCounts `json:"submissions"`
}

// CreateTaskRequest is the payload for creating a task.
// MaxPoints defaults to 100 when omitted.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description" binding:"omitempty,max=5000"`
	SubjectID   int        `json:"subject_id" binding:"required"`
	DueDate     *time.Time `json:"due_date" binding:"omitempty"`
	MaxPoints   *int       `json:"max_points" binding:"omitempty,min=0"`
}

// UpdateTaskRequest is the payload for updating a task.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	DueDate     *time.Time `json:"due_date" binding:"omitempty"`
	MaxPoints   *int       `json:"max_points" binding:"omitempty,min=0"`
}
