package service

import (
	"context"
	"testing"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubjectStore struct {
	nextID   int
	subjects map[int]*model.Subject
}

func newFakeSubjectStore() *fakeSubjectStore {
	return &fakeSubjectStore{nextID: 1, subjects: map[int]*model.Subject{}}
}

func (f *fakeSubjectStore) Create(_ context.Context, s *model.Subject) error {
	for _, existing := range f.subjects {
		if existing.Code == s.Code {
			return repository.ErrDuplicate
		}
	}
	s.ID = f.nextID
	f.nextID++
	cp := *s
	f.subjects[s.ID] = &cp
	return nil
}

func (f *fakeSubjectStore) GetByID(_ context.Context, id int) (*model.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubjectStore) List(_ context.Context, filter model.SubjectFilter) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range f.subjects {
		if filter.TeacherID != 0 && s.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSubjectStore) Update(_ context.Context, s *model.Subject) error {
	if _, ok := f.subjects[s.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *s
	f.subjects[s.ID] = &cp
	return nil
}

func (f *fakeSubjectStore) Delete(_ context.Context, id int) error {
	if _, ok := f.subjects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.subjects, id)
	return nil
}

type fakeSubjectTaskLister struct{}

func (fakeSubjectTaskLister) ListBySubject(_ context.Context, _ int) ([]model.Task, error) {
	return nil, nil
}

func newSubjectFixture() (*SubjectService, *fakeSubjectStore, *fakeEnrollmentStore) {
	store := newFakeSubjectStore()
	enrollments := &fakeEnrollmentStore{enrolled: map[[2]int]bool{}}
	svc := NewSubjectService(store, enrollments, fakeSubjectTaskLister{}, zerolog.Nop())
	return svc, store, enrollments
}

func TestCreateSubject(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	sub, err := svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{
		Title: "Introduction to Computer Science",
		Code:  "CS101",
	})
	require.NoError(t, err)
	assert.Equal(t, testTeacher.ID, sub.TeacherID)
	assert.NotZero(t, sub.ID)
}

func TestCreateSubjectCodeConflict(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	_, err := svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{Title: "CS Intro", Code: "CS101"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{Title: "Other", Code: "CS101"})
	assert.ErrorIs(t, err, ErrSubjectCodeTaken)
}

func TestGetSubjectDetailEmptyRelations(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	sub, err := svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{Title: "CS Intro", Code: "CS101"})
	require.NoError(t, err)

	detail, err := svc.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.NotNil(t, detail.Enrollments)
	assert.NotNil(t, detail.Tasks)
	assert.Empty(t, detail.Enrollments)
}

func TestUpdateSubjectOwnership(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	sub, err := svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{Title: "CS Intro", Code: "CS101"})
	require.NoError(t, err)

	foreign := model.SessionUser{ID: 42, Role: model.RoleTeacher}
	_, err = svc.Update(context.Background(), foreign, sub.ID, model.UpdateSubjectRequest{Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.Update(context.Background(), testTeacher, sub.ID, model.UpdateSubjectRequest{Title: "CS Fundamentals"})
	require.NoError(t, err)
	assert.Equal(t, "CS Fundamentals", updated.Title)
	assert.Equal(t, "CS101", updated.Code, "code stays immutable")
}

func TestDeleteSubjectOwnership(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	sub, err := svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{Title: "CS Intro", Code: "CS101"})
	require.NoError(t, err)

	foreign := model.SessionUser{ID: 42, Role: model.RoleTeacher}
	assert.ErrorIs(t, svc.Delete(context.Background(), foreign, sub.ID), ErrNotOwner)
	assert.NoError(t, svc.Delete(context.Background(), testTeacher, sub.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), testTeacher, sub.ID), ErrNotFound)
}

func TestEnrollFlow(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	sub, err := svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{Title: "CS Intro", Code: "CS101"})
	require.NoError(t, err)

	e, err := svc.Enroll(context.Background(), testStudent, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, testStudent.ID, e.StudentID)

	_, err = svc.Enroll(context.Background(), testStudent, sub.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollUnknownSubject(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	_, err := svc.Enroll(context.Background(), testStudent, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnenroll(t *testing.T) {
	svc, _, _ := newSubjectFixture()

	sub, err := svc.Create(context.Background(), testTeacher, model.CreateSubjectRequest{Title: "CS Intro", Code: "CS101"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Unenroll(context.Background(), testStudent, sub.ID), ErrNotEnrolled)

	_, err = svc.Enroll(context.Background(), testStudent, sub.ID)
	require.NoError(t, err)
	assert.NoError(t, svc.Unenroll(context.Background(), testStudent, sub.ID))
}
