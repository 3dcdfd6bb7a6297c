package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims extends JWT registered claims with the embedded session user.
// The token is self-contained: the server keeps no session record, and
// validity is decided by signature plus expiry alone.
type Claims struct {
	jwt.RegisteredClaims
	User model.SessionUser `json:"user"`
}

// AuthService is the password hasher and session token codec.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
// Any mismatch, including a malformed stored hash, yields
// ErrInvalidCredentials; callers cannot tell the cases apart.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken signs a session token embedding the user identity,
// expiring after the configured window (24h by default).
func (s *AuthService) IssueToken(user model.SessionUser) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		User: user,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token. Every failure
// (bad signature, malformed structure, expiry) collapses to
// ErrTokenInvalid so callers cannot distinguish the reasons.
func (s *AuthService) ValidateToken(tokenStr string) (*model.SessionUser, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims.User, nil
}

// SessionTTL is the cookie Max-Age matching the token expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.cfg.JWTExpiry
}
