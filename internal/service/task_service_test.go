package service

import (
	"context"
	"testing"
	"time"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaskStore struct {
	nextID int
	tasks  map[int]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{nextID: 1, tasks: map[int]*model.Task{}}
}

func (f *fakeTaskStore) Create(_ context.Context, t *model.Task) error {
	t.ID = f.nextID
	f.nextID++
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id int) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskStore) ListForTeacher(_ context.Context, teacherID int, filter model.TaskFilter) ([]model.TaskForTeacher, error) {
	var out []model.TaskForTeacher
	for _, t := range f.tasks {
		if t.TeacherID != teacherID {
			continue
		}
		if filter.SubjectID != 0 && t.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, model.TaskForTeacher{Task: *t})
	}
	return out, nil
}

func (f *fakeTaskStore) ListForStudent(_ context.Context, _ int, _ model.TaskFilter) ([]model.TaskForStudent, error) {
	return nil, nil
}

func (f *fakeTaskStore) Update(_ context.Context, id int, req model.UpdateTaskRequest) error {
	t, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.MaxPoints != nil {
		t.MaxPoints = *req.MaxPoints
	}
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id int) error {
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func newTaskFixture() (*TaskService, *fakeTaskStore, *fakeSubjectStore, *fakeEnrollmentStore) {
	tasks := newFakeTaskStore()
	subjects := newFakeSubjectStore()
	subjects.subjects[5] = &model.Subject{ID: 5, Title: "CS Intro", Code: "CS101", TeacherID: testTeacher.ID}
	subjects.nextID = 6
	enrollments := &fakeEnrollmentStore{enrolled: map[[2]int]bool{
		{testStudent.ID, 5}: true,
	}}
	svc := NewTaskService(tasks, subjects, enrollments, zerolog.Nop())
	return svc, tasks, subjects, enrollments
}

func TestCreateTaskDefaultsMaxPoints(t *testing.T) {
	svc, _, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{
		Title:     "Assignment 1",
		SubjectID: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, task.MaxPoints)
	assert.Nil(t, task.DueDate)
	require.NotNil(t, task.Subject)
	assert.Equal(t, "CS101", task.Subject.Code)
}

func TestCreateTaskExplicitMaxPoints(t *testing.T) {
	svc, _, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{
		Title:     "Quiz",
		SubjectID: 5,
		MaxPoints: intPtr(50),
	})
	require.NoError(t, err)
	assert.Equal(t, 50, task.MaxPoints)
}

func TestCreateTaskInForeignSubjectHidden(t *testing.T) {
	svc, _, subjects, _ := newTaskFixture()
	subjects.subjects[8] = &model.Subject{ID: 8, Code: "MA201", TeacherID: 42}

	_, err := svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{
		Title:     "Sneaky",
		SubjectID: 8,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{
		Title:     "Nowhere",
		SubjectID: 999,
	})
	assert.ErrorIs(t, err, ErrNotFound, "missing and foreign subjects look identical")
}

func TestGetTaskVisibility(t *testing.T) {
	svc, _, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{Title: "Assignment 1", SubjectID: 5})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), testTeacher, task.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), testStudent, task.ID)
	assert.NoError(t, err)

	foreign := model.SessionUser{ID: 42, Role: model.RoleTeacher}
	_, err = svc.Get(context.Background(), foreign, task.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	outsider := model.SessionUser{ID: 99, Role: model.RoleStudent}
	_, err = svc.Get(context.Background(), outsider, task.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestUpdateTaskPartialPatch(t *testing.T) {
	svc, _, _, _ := newTaskFixture()

	due := time.Now().Add(48 * time.Hour)
	task, err := svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{
		Title:       "Assignment 1",
		Description: "original",
		SubjectID:   5,
		DueDate:     &due,
	})
	require.NoError(t, err)

	title := "Assignment 1 (revised)"
	updated, err := svc.Update(context.Background(), testTeacher, task.ID, model.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "original", updated.Description)
	require.NotNil(t, updated.DueDate)
}

func TestUpdateTaskOwnership(t *testing.T) {
	svc, _, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{Title: "Assignment 1", SubjectID: 5})
	require.NoError(t, err)

	foreign := model.SessionUser{ID: 42, Role: model.RoleTeacher}
	title := "Hijacked"
	_, err = svc.Update(context.Background(), foreign, task.ID, model.UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestDeleteTaskOwnership(t *testing.T) {
	svc, _, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), testTeacher, model.CreateTaskRequest{Title: "Assignment 1", SubjectID: 5})
	require.NoError(t, err)

	foreign := model.SessionUser{ID: 42, Role: model.RoleTeacher}
	assert.ErrorIs(t, svc.Delete(context.Background(), foreign, task.ID), ErrNotOwner)
	assert.NoError(t, svc.Delete(context.Background(), testTeacher, task.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), testTeacher, task.ID), ErrNotFound)
}
