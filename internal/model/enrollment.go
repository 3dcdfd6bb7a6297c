package model

import "time"

// Enrollment grants a student read/submit access to a subject's tasks.
// At most one enrollment exists per (student, subject) pair.
type Enrollment struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	SubjectID int       `json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`

	Student *UserSummary `json:"student,omitempty"`
	Subject *Subject     `json:"subject,omitempty"`
}
