package service

import (
	"context"
	"testing"
	"time"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	nextID int
	users  map[int]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int]*model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func newUserFixture() (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	auth := newTestAuthService("secret", time.Hour)
	return NewUserService(store, auth), store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newUserFixture()

	u, err := svc.Register(context.Background(), model.RegisterRequest{
		Name:     "Alice Student",
		Email:    "student1@example.com",
		Password: "student123",
		Role:     model.RoleStudent,
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "student123", u.PasswordHash)

	got, err := svc.Authenticate(context.Background(), "student1@example.com", "student123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Name: "Alice", Email: "dup@example.com", Password: "password1", Role: model.RoleStudent,
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), model.RegisterRequest{
		Name: "Bob", Email: "dup@example.com", Password: "password2", Role: model.RoleTeacher,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "correct-horse", Role: model.RoleStudent,
	})
	require.NoError(t, err)

	// Unknown account and wrong password produce the same error.
	_, errMissing := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	_, errWrong := svc.Authenticate(context.Background(), "alice@example.com", "battery-staple")
	assert.ErrorIs(t, errMissing, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errMissing, errWrong)
}
