package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepository handles task data access.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// taskColumns is the shared projection for task queries.
const taskColumns = `t.id, t.title, t.description, t.subject_id, t.teacher_id,
	t.due_date, t.max_points, t.created_at, t.updated_at, s.title, s.code`

func scanTask(row interface{ Scan(...interface{}) error }) (model.Task, error) {
	t := model.Task{Subject: &model.SubjectRef{}}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.SubjectID, &t.TeacherID,
		&t.DueDate, &t.MaxPoints, &t.CreatedAt, &t.UpdatedAt,
		&t.Subject.Title, &t.Subject.Code)
	return t, err
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, subject_id, teacher_id, due_date, max_points)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.SubjectID, t.TeacherID, t.DueDate, t.MaxPoints,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// GetByID retrieves a task with its subject reference.
func (r *TaskRepository) GetByID(ctx context.Context, id int) (*model.Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t
		 JOIN subjects s ON s.id = t.subject_id
		 WHERE t.id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ListForTeacher retrieves a teacher's tasks with submission status counts,
// due soonest first.
func (r *TaskRepository) ListForTeacher(ctx context.Context, teacherID int, f model.TaskFilter) ([]model.TaskForTeacher, error) {
	query := `SELECT ` + taskColumns + `,
	                 COUNT(sub.id),
	                 COUNT(sub.id) FILTER (WHERE sub.status = 'SUBMITTED'),
	                 COUNT(sub.id) FILTER (WHERE sub.status = 'GRADED')
	          FROM tasks t
	          JOIN subjects s ON s.id = t.subject_id
	          LEFT JOIN submissions sub ON sub.task_id = t.id
	          WHERE t.teacher_id = $1`
	args := []interface{}{teacherID}

	if f.SubjectID > 0 {
		args = append(args, f.SubjectID)
		query += ` AND t.subject_id = $` + strconv.Itoa(len(args))
	}
	query += ` GROUP BY t.id, s.title, s.code
	           ORDER BY t.due_date ASC NULLS LAST, t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var tasks []model.TaskForTeacher
	for rows.Next() {
		t := model.TaskForTeacher{Task: model.Task{Subject: &model.SubjectRef{}}}
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.SubjectID, &t.TeacherID,
			&t.DueDate, &t.MaxPoints, &t.CreatedAt, &t.UpdatedAt,
			&t.Subject.Title, &t.Subject.Code,
			&t.Submissions.Total, &t.Submissions.Submitted, &t.Submissions.Graded); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListForStudent retrieves tasks from the student's enrolled subjects,
// each paired with the student's own submission if one exists.
func (r *TaskRepository) ListForStudent(ctx context.Context, studentID int, f model.TaskFilter) ([]model.TaskForStudent, error) {
	query := `SELECT ` + taskColumns + `,
	                 sub.status, sub.points_earned, sub.submitted_at
	          FROM tasks t
	          JOIN subjects s ON s.id = t.subject_id
	          JOIN enrollments e ON e.subject_id = t.subject_id AND e.student_id = $1
	          LEFT JOIN submissions sub ON sub.task_id = t.id AND sub.student_id = $1
	          WHERE 1=1`
	args := []interface{}{studentID}

	if f.SubjectID > 0 {
		args = append(args, f.SubjectID)
		query += ` AND t.subject_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY t.due_date ASC NULLS LAST, t.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var tasks []model.TaskForStudent
	for rows.Next() {
		t := model.TaskForStudent{Task: model.Task{Subject: &model.SubjectRef{}}}
		var (
			status      *model.SubmissionStatus
			points      *int
			submittedAt *time.Time
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.SubjectID, &t.TeacherID,
			&t.DueDate, &t.MaxPoints, &t.CreatedAt, &t.UpdatedAt,
			&t.Subject.Title, &t.Subject.Code,
			&status, &points, &submittedAt); err != nil {
			return nil, err
		}
		if status != nil {
			t.Submission = &model.SubmissionSummary{
				Status:       *status,
				PointsEarned: points,
				SubmittedAt:  *submittedAt,
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListBySubject retrieves a subject's tasks, newest first.
func (r *TaskRepository) ListBySubject(ctx context.Context, subjectID int) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t
		 JOIN subjects s ON s.id = t.subject_id
		 WHERE t.subject_id = $1
		 ORDER BY t.created_at DESC`, subjectID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update patches the non-nil fields of the task.
func (r *TaskRepository) Update(ctx context.Context, id int, req model.UpdateTaskRequest) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tasks SET
		    title       = COALESCE($1, title),
		    description = COALESCE($2, description),
		    due_date    = COALESCE($3, due_date),
		    max_points  = COALESCE($4, max_points),
		    updated_at  = NOW()
		 WHERE id = $5`,
		req.Title, req.Description, req.DueDate, req.MaxPoints, id)
	return translate(err)
}

// Delete removes a task; its submissions cascade at the schema level.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return translate(err)
}
