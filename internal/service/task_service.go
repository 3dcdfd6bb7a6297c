package service

import (
	"context"
	"errors"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/rs/zerolog"
)

// defaultMaxPoints applies when a task is created without an explicit cap.
const defaultMaxPoints = 100

// TaskStore is the task persistence surface the service needs.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	GetByID(ctx context.Context, id int) (*model.Task, error)
	ListForTeacher(ctx context.Context, teacherID int, f model.TaskFilter) ([]model.TaskForTeacher, error)
	ListForStudent(ctx context.Context, studentID int, f model.TaskFilter) ([]model.TaskForStudent, error)
	Update(ctx context.Context, id int, req model.UpdateTaskRequest) error
	Delete(ctx context.Context, id int) error
}

// TaskService implements task CRUD with the ownership and enrollment rules.
type TaskService struct {
	tasks       TaskStore
	subjects    SubjectStore
	enrollments EnrollmentStore
	log         zerolog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks TaskStore, subjects SubjectStore, enrollments EnrollmentStore, log zerolog.Logger) *TaskService {
	return &TaskService{
		tasks:       tasks,
		subjects:    subjects,
		enrollments: enrollments,
		log:         log.With().Str("component", "task_service").Logger(),
	}
}

// Create registers a task in a subject the teacher owns. A foreign
// subject yields ErrNotFound so existence stays hidden from non-owners.
func (s *TaskService) Create(ctx context.Context, teacher model.SessionUser, req model.CreateTaskRequest) (*model.Task, error) {
	sub, err := s.subjects.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sub.TeacherID != teacher.ID {
		return nil, ErrNotFound
	}

	maxPoints := defaultMaxPoints
	if req.MaxPoints != nil {
		maxPoints = *req.MaxPoints
	}

	t := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		SubjectID:   req.SubjectID,
		TeacherID:   teacher.ID,
		DueDate:     req.DueDate,
		MaxPoints:   maxPoints,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	t.Subject = &model.SubjectRef{Title: sub.Title, Code: sub.Code}
	s.log.Info().Int("task_id", t.ID).Int("subject_id", t.SubjectID).
		Int("teacher_id", teacher.ID).Msg("task created")
	return t, nil
}

// ListForTeacher retrieves the teacher's tasks with submission counts.
func (s *TaskService) ListForTeacher(ctx context.Context, teacherID int, f model.TaskFilter) ([]model.TaskForTeacher, error) {
	return s.tasks.ListForTeacher(ctx, teacherID, f)
}

// ListForStudent retrieves tasks from the student's enrolled subjects.
func (s *TaskService) ListForStudent(ctx context.Context, studentID int, f model.TaskFilter) ([]model.TaskForStudent, error) {
	return s.tasks.ListForStudent(ctx, studentID, f)
}

// Get retrieves a task visible to the caller: the owning teacher, or a
// student enrolled in the task's subject.
func (s *TaskService) Get(ctx context.Context, user model.SessionUser, id int) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch user.Role {
	case model.RoleTeacher:
		if t.TeacherID != user.ID {
			return nil, ErrNotOwner
		}
	case model.RoleStudent:
		enrolled, err := s.enrollments.Exists(ctx, user.ID, t.SubjectID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
	default:
		return nil, ErrForbidden
	}
	return t, nil
}

// Update patches a task the teacher owns and returns the fresh row.
func (s *TaskService) Update(ctx context.Context, teacher model.SessionUser, id int, req model.UpdateTaskRequest) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.TeacherID != teacher.ID {
		return nil, ErrNotOwner
	}

	if err := s.tasks.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

// Delete removes a task the teacher owns.
func (s *TaskService) Delete(ctx context.Context, teacher model.SessionUser, id int) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if t.TeacherID != teacher.ID {
		return ErrNotOwner
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("task_id", id).Int("teacher_id", teacher.ID).Msg("task deleted")
	return nil
}
