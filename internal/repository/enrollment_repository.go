package repository

import (
	"context"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository handles enrollment data access.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Create inserts an enrollment. Returns ErrDuplicate if the student is
// already enrolled in the subject.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, subject_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		e.StudentID, e.SubjectID,
	).Scan(&e.ID, &e.CreatedAt)
	return translate(err)
}

// Exists reports whether the student holds an enrollment in the subject.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, subjectID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND subject_id = $2)`,
		studentID, subjectID,
	).Scan(&exists)
	return exists, translate(err)
}

// ListBySubject retrieves a subject's enrollments with student summaries.
func (r *EnrollmentRepository) ListBySubject(ctx context.Context, subjectID int) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.student_id, e.subject_id, e.created_at,
		        u.id, u.name, u.email
		 FROM enrollments e
		 JOIN users u ON u.id = e.student_id
		 WHERE e.subject_id = $1
		 ORDER BY e.created_at ASC`, subjectID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e := model.Enrollment{Student: &model.UserSummary{}}
		if err := rows.Scan(&e.ID, &e.StudentID, &e.SubjectID, &e.CreatedAt,
			&e.Student.ID, &e.Student.Name, &e.Student.Email); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// Delete removes the student's enrollment in the subject.
// Returns ErrNotFound when no such enrollment exists.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, subjectID int) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE student_id = $1 AND subject_id = $2`,
		studentID, subjectID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
