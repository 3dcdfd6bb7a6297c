package service

import (
	"context"
	"errors"
	"time"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/rs/zerolog"
)

// SubmissionStore is the submission persistence surface the service needs.
type SubmissionStore interface {
	CreateWithFiles(ctx context.Context, s *model.Submission, files []model.UploadedFile) error
	GetByID(ctx context.Context, id int) (*model.Submission, error)
	GetByTaskAndStudent(ctx context.Context, taskID, studentID int) (*model.Submission, error)
	ListByTask(ctx context.Context, taskID int) ([]model.Submission, error)
	Grade(ctx context.Context, id, points int, feedback *string, gradedAt time.Time) error
	GetFile(ctx context.Context, fileID, submissionID int) (*model.SubmissionFile, error)
}

// TaskGetter resolves tasks for submission checks.
type TaskGetter interface {
	GetByID(ctx context.Context, id int) (*model.Task, error)
}

// SubmissionService implements submitting and grading with the full
// relationship rule set: enrollment, deadline, single submission,
// ownership and point caps.
type SubmissionService struct {
	submissions SubmissionStore
	tasks       TaskGetter
	enrollments EnrollmentStore
	log         zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(submissions SubmissionStore, tasks TaskGetter, enrollments EnrollmentStore, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		tasks:       tasks,
		enrollments: enrollments,
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit records the student's one submission to a task. The deadline
// is compared server-side at the instant of the call; there is no
// grace period. A concurrent duplicate insert is rejected by the store
// and surfaces as ErrAlreadySubmitted.
func (s *SubmissionService) Submit(ctx context.Context, student model.SessionUser, taskID int, req model.SubmitTaskRequest) (*model.Submission, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	enrolled, err := s.enrollments.Exists(ctx, student.ID, t.SubjectID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	if t.DueDate != nil && time.Now().After(*t.DueDate) {
		return nil, ErrDeadlinePassed
	}

	if req.Content == "" && len(req.Files) == 0 {
		return nil, ErrEmptySubmission
	}

	// The client echoes back metadata from the upload endpoint. Only
	// the bare file name is trusted; the stored path is recomputed so a
	// forged file_path can never point outside the student's upload
	// directory.
	for i := range req.Files {
		f := &req.Files[i]
		if !validAttachmentName(f.FileName) {
			return nil, ErrBadFileName
		}
		f.FilePath = submissionFilePath(taskID, student.ID, f.FileName)
	}

	sub := &model.Submission{
		TaskID:      taskID,
		StudentID:   student.ID,
		Content:     req.Content,
		Status:      model.StatusSubmitted,
		SubmittedAt: time.Now(),
	}
	if err := s.submissions.CreateWithFiles(ctx, sub, req.Files); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}

	sub.Task = &model.TaskRef{Title: t.Title, MaxPoints: t.MaxPoints}
	s.log.Info().Int("task_id", taskID).Int("student_id", student.ID).
		Int("files", len(req.Files)).Msg("task submitted")
	return sub, nil
}

// ListForTask retrieves a task's submissions for an authorized caller:
// the owning teacher sees all of them, an enrolled student only their
// own. Unauthorized callers get ErrNotFound; existence stays hidden.
func (s *SubmissionService) ListForTask(ctx context.Context, user model.SessionUser, taskID int) (*model.Task, []model.Submission, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	switch user.Role {
	case model.RoleTeacher:
		if t.TeacherID != user.ID {
			return nil, nil, ErrNotFound
		}
		subs, err := s.submissions.ListByTask(ctx, taskID)
		if err != nil {
			return nil, nil, err
		}
		if subs == nil {
			subs = []model.Submission{}
		}
		return t, subs, nil

	case model.RoleStudent:
		enrolled, err := s.enrollments.Exists(ctx, user.ID, t.SubjectID)
		if err != nil {
			return nil, nil, err
		}
		if !enrolled {
			return nil, nil, ErrNotFound
		}
		own, err := s.submissions.GetByTaskAndStudent(ctx, taskID, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return t, []model.Submission{}, nil
			}
			return nil, nil, err
		}
		return t, []model.Submission{*own}, nil

	default:
		return nil, nil, ErrForbidden
	}
}

// Grade scores a submission on a task the teacher owns. Points must not
// exceed the task's maximum. Regrading is allowed; the last write wins.
func (s *SubmissionService) Grade(ctx context.Context, teacher model.SessionUser, taskID, submissionID int, req model.GradeSubmissionRequest) (*model.Submission, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.TeacherID != teacher.ID {
		return nil, ErrNotFound
	}

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sub.TaskID != taskID {
		return nil, ErrNotFound
	}

	points := *req.PointsEarned
	if points > t.MaxPoints {
		return nil, ErrPointsExceedMax
	}

	var feedback *string
	if req.Feedback != "" {
		feedback = &req.Feedback
	}
	if err := s.submissions.Grade(ctx, submissionID, points, feedback, time.Now()); err != nil {
		return nil, err
	}

	s.log.Info().Int("submission_id", submissionID).Int("points", points).
		Int("teacher_id", teacher.ID).Msg("submission graded")
	return s.submissions.GetByID(ctx, submissionID)
}

// FileForDownload resolves a submission file the caller may read: the
// teacher owning the task, or the student who submitted it.
func (s *SubmissionService) FileForDownload(ctx context.Context, user model.SessionUser, taskID, submissionID, fileID int) (*model.SubmissionFile, error) {
	switch user.Role {
	case model.RoleTeacher:
		t, err := s.tasks.GetByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if t.TeacherID != user.ID {
			return nil, ErrForbidden
		}

	case model.RoleStudent:
		sub, err := s.submissions.GetByID(ctx, submissionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if sub.StudentID != user.ID || sub.TaskID != taskID {
			return nil, ErrForbidden
		}

	default:
		return nil, ErrForbidden
	}

	f, err := s.submissions.GetFile(ctx, fileID, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
