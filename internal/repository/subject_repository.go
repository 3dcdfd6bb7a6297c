package repository

import (
	"context"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubjectRepository handles subject data access.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// Create inserts a new subject. Returns ErrDuplicate if the code exists.
func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subjects (title, description, code, teacher_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Title, s.Description, s.Code, s.TeacherID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

// GetByID retrieves a subject with its teacher summary and enrollment count.
func (r *SubjectRepository) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	s := &model.Subject{Teacher: &model.UserSummary{}}
	err := r.pool.QueryRow(ctx,
		`SELECT s.id, s.title, s.description, s.code, s.teacher_id,
		        s.created_at, s.updated_at,
		        u.id, u.name, u.email,
		        (SELECT COUNT(*) FROM enrollments e WHERE e.subject_id = s.id)
		 FROM subjects s
		 JOIN users u ON u.id = s.teacher_id
		 WHERE s.id = $1`, id,
	).Scan(&s.ID, &s.Title, &s.Description, &s.Code, &s.TeacherID,
		&s.CreatedAt, &s.UpdatedAt,
		&s.Teacher.ID, &s.Teacher.Name, &s.Teacher.Email,
		&s.EnrollmentCount)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// List retrieves subjects matching the filter, newest first.
func (r *SubjectRepository) List(ctx context.Context, f model.SubjectFilter) ([]model.Subject, error) {
	query := `SELECT s.id, s.title, s.description, s.code, s.teacher_id,
	                 s.created_at, s.updated_at,
	                 u.id, u.name, u.email,
	                 (SELECT COUNT(*) FROM enrollments e WHERE e.subject_id = s.id)
	          FROM subjects s
	          JOIN users u ON u.id = s.teacher_id
	          WHERE 1=1`
	var args []interface{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += ` AND (s.title ILIKE $1 OR s.code ILIKE $1)`
	}
	if f.TeacherID > 0 {
		args = append(args, f.TeacherID)
		if len(args) == 1 {
			query += ` AND s.teacher_id = $1`
		} else {
			query += ` AND s.teacher_id = $2`
		}
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		s := model.Subject{Teacher: &model.UserSummary{}}
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Code, &s.TeacherID,
			&s.CreatedAt, &s.UpdatedAt,
			&s.Teacher.ID, &s.Teacher.Name, &s.Teacher.Email,
			&s.EnrollmentCount); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// Update rewrites the subject's title and description.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE subjects SET title = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		s.Title, s.Description, s.ID)
	return translate(err)
}

// Delete removes a subject; tasks and enrollments cascade at the schema level.
func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	return translate(err)
}
