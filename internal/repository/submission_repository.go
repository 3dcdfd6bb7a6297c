package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionRepository handles submission and submission file data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// CreateWithFiles inserts a submission and its file records in one
// transaction. Returns ErrDuplicate when the student already submitted
// to the task; the unique constraint resolves the concurrent-submit
// race, no in-process locking involved.
func (r *SubmissionRepository) CreateWithFiles(ctx context.Context, s *model.Submission, files []model.UploadedFile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO submissions (task_id, student_id, content, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.TaskID, s.StudentID, s.Content, s.Status, s.SubmittedAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return translate(err)
	}

	for _, f := range files {
		var sf model.SubmissionFile
		err := tx.QueryRow(ctx,
			`INSERT INTO submission_files (submission_id, file_name, original_name, file_path, file_size, file_type)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			s.ID, f.FileName, f.OriginalName, f.FilePath, f.FileSize, f.FileType,
		).Scan(&sf.ID, &sf.CreatedAt)
		if err != nil {
			return translate(err)
		}
		sf.SubmissionID = s.ID
		sf.FileName = f.FileName
		sf.OriginalName = f.OriginalName
		sf.FilePath = f.FilePath
		sf.FileSize = f.FileSize
		sf.FileType = f.FileType
		s.Files = append(s.Files, sf)
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a submission with its task reference and files.
func (r *SubmissionRepository) GetByID(ctx context.Context, id int) (*model.Submission, error) {
	s := &model.Submission{Task: &model.TaskRef{}}
	err := r.pool.QueryRow(ctx,
		`SELECT sub.id, sub.task_id, sub.student_id, sub.content, sub.status,
		        sub.points_earned, sub.feedback, sub.submitted_at, sub.graded_at,
		        sub.created_at, sub.updated_at, t.title, t.max_points
		 FROM submissions sub
		 JOIN tasks t ON t.id = sub.task_id
		 WHERE sub.id = $1`, id,
	).Scan(&s.ID, &s.TaskID, &s.StudentID, &s.Content, &s.Status,
		&s.PointsEarned, &s.Feedback, &s.SubmittedAt, &s.GradedAt,
		&s.CreatedAt, &s.UpdatedAt, &s.Task.Title, &s.Task.MaxPoints)
	if err != nil {
		return nil, translate(err)
	}

	files, err := r.filesFor(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Files = files
	return s, nil
}

// GetByTaskAndStudent retrieves the student's submission to a task.
func (r *SubmissionRepository) GetByTaskAndStudent(ctx context.Context, taskID, studentID int) (*model.Submission, error) {
	s := &model.Submission{Task: &model.TaskRef{}}
	err := r.pool.QueryRow(ctx,
		`SELECT sub.id, sub.task_id, sub.student_id, sub.content, sub.status,
		        sub.points_earned, sub.feedback, sub.submitted_at, sub.graded_at,
		        sub.created_at, sub.updated_at, t.title, t.max_points
		 FROM submissions sub
		 JOIN tasks t ON t.id = sub.task_id
		 WHERE sub.task_id = $1 AND sub.student_id = $2`, taskID, studentID,
	).Scan(&s.ID, &s.TaskID, &s.StudentID, &s.Content, &s.Status,
		&s.PointsEarned, &s.Feedback, &s.SubmittedAt, &s.GradedAt,
		&s.CreatedAt, &s.UpdatedAt, &s.Task.Title, &s.Task.MaxPoints)
	if err != nil {
		return nil, translate(err)
	}

	files, err := r.filesFor(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Files = files
	return s, nil
}

// ListByTask retrieves every submission to a task with student
// summaries and files, newest first.
func (r *SubmissionRepository) ListByTask(ctx context.Context, taskID int) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sub.id, sub.task_id, sub.student_id, sub.content, sub.status,
		        sub.points_earned, sub.feedback, sub.submitted_at, sub.graded_at,
		        sub.created_at, sub.updated_at, u.id, u.name, u.email
		 FROM submissions sub
		 JOIN users u ON u.id = sub.student_id
		 WHERE sub.task_id = $1
		 ORDER BY sub.submitted_at DESC`, taskID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		s := model.Submission{Student: &model.UserSummary{}}
		if err := rows.Scan(&s.ID, &s.TaskID, &s.StudentID, &s.Content, &s.Status,
			&s.PointsEarned, &s.Feedback, &s.SubmittedAt, &s.GradedAt,
			&s.CreatedAt, &s.UpdatedAt,
			&s.Student.ID, &s.Student.Name, &s.Student.Email); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range submissions {
		files, err := r.filesFor(ctx, submissions[i].ID)
		if err != nil {
			return nil, err
		}
		submissions[i].Files = files
	}
	return submissions, nil
}

// Grade records points and feedback, marks the submission GRADED and
// stamps graded_at. Repeated grading overwrites the previous values.
func (r *SubmissionRepository) Grade(ctx context.Context, id, points int, feedback *string, gradedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE submissions
		 SET points_earned = $1, feedback = $2, status = $3, graded_at = $4, updated_at = NOW()
		 WHERE id = $5`,
		points, feedback, model.StatusGraded, gradedAt, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetFile retrieves one file record scoped to its submission.
func (r *SubmissionRepository) GetFile(ctx context.Context, fileID, submissionID int) (*model.SubmissionFile, error) {
	f := &model.SubmissionFile{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, submission_id, file_name, original_name, file_path, file_size, file_type, created_at
		 FROM submission_files
		 WHERE id = $1 AND submission_id = $2`, fileID, submissionID,
	).Scan(&f.ID, &f.SubmissionID, &f.FileName, &f.OriginalName,
		&f.FilePath, &f.FileSize, &f.FileType, &f.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return f, nil
}

// AttachedFileNames returns the stored names of every file referenced
// by a submission record. The upload sweeper uses this to decide which
// on-disk files are orphans.
func (r *SubmissionRepository) AttachedFileNames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT file_name FROM submission_files`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names[n] = struct{}{}
	}
	return names, rows.Err()
}

func (r *SubmissionRepository) filesFor(ctx context.Context, submissionID int) ([]model.SubmissionFile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, submission_id, file_name, original_name, file_path, file_size, file_type, created_at
		 FROM submission_files
		 WHERE submission_id = $1
		 ORDER BY id ASC`, submissionID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var files []model.SubmissionFile
	for rows.Next() {
		var f model.SubmissionFile
		if err := rows.Scan(&f.ID, &f.SubmissionID, &f.FileName, &f.OriginalName,
			&f.FilePath, &f.FileSize, &f.FileType, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
