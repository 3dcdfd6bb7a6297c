package repository

import (
	"context"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository runs the aggregate count queries behind the
// dashboard endpoint.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// TeacherStats counts a teacher's subjects, tasks and ungraded submissions.
func (r *DashboardRepository) TeacherStats(ctx context.Context, teacherID int) (*model.TeacherDashboard, error) {
	d := &model.TeacherDashboard{}
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM subjects WHERE teacher_id = $1),
		   (SELECT COUNT(*) FROM tasks WHERE teacher_id = $1),
		   (SELECT COUNT(*) FROM submissions sub
		      JOIN tasks t ON t.id = sub.task_id
		      WHERE t.teacher_id = $1 AND sub.status = $2)`,
		teacherID, model.StatusSubmitted,
	).Scan(&d.Subjects, &d.Tasks, &d.UngradedSubmissions)
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}

// StudentStats counts a student's enrollments, reachable tasks and submissions.
func (r *DashboardRepository) StudentStats(ctx context.Context, studentID int) (*model.StudentDashboard, error) {
	d := &model.StudentDashboard{}
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM enrollments WHERE student_id = $1),
		   (SELECT COUNT(*) FROM tasks t
		      JOIN enrollments e ON e.subject_id = t.subject_id
		      WHERE e.student_id = $1),
		   (SELECT COUNT(*) FROM submissions WHERE student_id = $1)`,
		studentID,
	).Scan(&d.Enrollments, &d.AvailableTasks, &d.Submissions)
	if err != nil {
		return nil, translate(err)
	}
	return d, nil
}
