package model

import "time"

// Subject is a course a teacher runs and students enroll in.
type Subject struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	TeacherID   int       `json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Optional projections, filled by list/detail queries.
	Teacher         *UserSummary `json:"teacher,omitempty"`
	EnrollmentCount int          `json:"enrollment_count"`
}

// SubjectDetail is a subject with its enrollments and tasks expanded.
type SubjectDetail struct {
	Subject
	Enrollments []Enrollment `json:"enrollments"`
	Tasks       []Task       `json:"tasks"`
}

// SubjectFilter enumerates the supported subject list filters.
// Zero values mean "no filter".
type SubjectFilter struct {
	// Query matches title or code, case-insensitive substring.
	Query     string
	TeacherID int
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Code        string `json:"code" binding:"required,min=2,max=20"`
}

// UpdateSubjectRequest is the payload for updating a subject.
// The code is immutable after creation.
type UpdateSubjectRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}
