package service

import (
	"context"
	"errors"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/rs/zerolog"
)

// SubjectStore is the subject persistence surface the service needs.
type SubjectStore interface {
	Create(ctx context.Context, s *model.Subject) error
	GetByID(ctx context.Context, id int) (*model.Subject, error)
	List(ctx context.Context, f model.SubjectFilter) ([]model.Subject, error)
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id int) error
}

// EnrollmentStore is the enrollment persistence surface shared by services.
type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	Exists(ctx context.Context, studentID, subjectID int) (bool, error)
	ListBySubject(ctx context.Context, subjectID int) ([]model.Enrollment, error)
	Delete(ctx context.Context, studentID, subjectID int) error
}

// SubjectTaskLister lists tasks for the subject detail view.
type SubjectTaskLister interface {
	ListBySubject(ctx context.Context, subjectID int) ([]model.Task, error)
}

// SubjectService implements subject CRUD and enrollment, applying the
// ownership and relationship rules.
type SubjectService struct {
	subjects    SubjectStore
	enrollments EnrollmentStore
	tasks       SubjectTaskLister
	log         zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjects SubjectStore, enrollments EnrollmentStore, tasks SubjectTaskLister, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjects:    subjects,
		enrollments: enrollments,
		tasks:       tasks,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// List retrieves subjects matching the typed filter.
func (s *SubjectService) List(ctx context.Context, f model.SubjectFilter) ([]model.Subject, error) {
	return s.subjects.List(ctx, f)
}

// Create registers a new subject owned by the calling teacher.
func (s *SubjectService) Create(ctx context.Context, teacher model.SessionUser, req model.CreateSubjectRequest) (*model.Subject, error) {
	sub := &model.Subject{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		TeacherID:   teacher.ID,
	}
	if err := s.subjects.Create(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSubjectCodeTaken
		}
		return nil, err
	}

	s.log.Info().Int("subject_id", sub.ID).Str("code", sub.Code).
		Int("teacher_id", teacher.ID).Msg("subject created")
	return sub, nil
}

// Get retrieves a subject with its enrollments and tasks.
func (s *SubjectService) Get(ctx context.Context, id int) (*model.SubjectDetail, error) {
	sub, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	enrollments, err := s.enrollments.ListBySubject(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListBySubject(ctx, id)
	if err != nil {
		return nil, err
	}

	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return &model.SubjectDetail{Subject: *sub, Enrollments: enrollments, Tasks: tasks}, nil
}

// Update rewrites a subject the teacher owns.
func (s *SubjectService) Update(ctx context.Context, teacher model.SessionUser, id int, req model.UpdateSubjectRequest) (*model.Subject, error) {
	sub, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sub.TeacherID != teacher.ID {
		return nil, ErrNotOwner
	}

	sub.Title = req.Title
	sub.Description = req.Description
	if err := s.subjects.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete removes a subject the teacher owns.
func (s *SubjectService) Delete(ctx context.Context, teacher model.SessionUser, id int) error {
	sub, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if sub.TeacherID != teacher.ID {
		return ErrNotOwner
	}
	return s.subjects.Delete(ctx, id)
}

// Enroll adds the calling student to a subject. At most one enrollment
// per (student, subject); the constraint backstops concurrent attempts.
func (s *SubjectService) Enroll(ctx context.Context, student model.SessionUser, subjectID int) (*model.Enrollment, error) {
	sub, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e := &model.Enrollment{StudentID: student.ID, SubjectID: subjectID}
	if err := s.enrollments.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	e.Subject = sub
	e.Student = &model.UserSummary{ID: student.ID, Name: student.Name, Email: student.Email}
	s.log.Info().Int("subject_id", subjectID).Int("student_id", student.ID).Msg("student enrolled")
	return e, nil
}

// Unenroll removes the calling student's enrollment.
func (s *SubjectService) Unenroll(ctx context.Context, student model.SessionUser, subjectID int) error {
	if err := s.enrollments.Delete(ctx, student.ID, subjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotEnrolled
		}
		return err
	}
	return nil
}
