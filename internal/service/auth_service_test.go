package service

import (
	"testing"
	"time"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(secret string, expiry time.Duration) *AuthService {
	return NewAuthService(&config.Config{
		JWTSecret:  secret,
		JWTExpiry:  expiry,
		BcryptCost: 4, // min cost keeps tests fast
	})
}

func TestHashAndCheckPassword(t *testing.T) {
	svc := newTestAuthService("secret", time.Hour)

	hash, err := svc.HashPassword("student123")
	require.NoError(t, err)
	assert.NotEqual(t, "student123", hash)

	assert.NoError(t, svc.CheckPassword(hash, "student123"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.CheckPassword("not-a-bcrypt-hash", "student123"), ErrInvalidCredentials)
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestAuthService("secret", time.Hour)

	user := model.SessionUser{ID: 7, Email: "alice@example.com", Name: "Alice", Role: model.RoleStudent}
	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user, *got)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestAuthService("secret", -time.Minute)

	token, err := svc.IssueToken(model.SessionUser{ID: 1, Role: model.RoleTeacher})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := newTestAuthService("secret-a", time.Hour)
	verifier := newTestAuthService("secret-b", time.Hour)

	token, err := issuer.IssueToken(model.SessionUser{ID: 1, Role: model.RoleTeacher})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenMalformed(t *testing.T) {
	svc := newTestAuthService("secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestValidateTokenUnsignedAlgRejected(t *testing.T) {
	svc := newTestAuthService("secret", time.Hour)

	// alg=none token with a valid-looking payload.
	none := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiIxIn0."
	_, err := svc.ValidateToken(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
