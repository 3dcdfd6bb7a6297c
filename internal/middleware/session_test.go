package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Environment: env,
		JWTSecret:   "test-secret",
		JWTExpiry:   24 * time.Hour,
		BcryptCost:  4,
	}
}

func guardedRouter(auth *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AccessGuard(auth))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
	r.GET("/api/v1/dashboard", func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	r.GET("/api/v1/auth/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": CurrentUser(c) == nil})
	})
	r.GET("/profile", func(c *gin.Context) { c.String(http.StatusOK, "profile") })
	return r
}

func issueCookie(t *testing.T, auth *service.AuthService, user model.SessionUser) *http.Cookie {
	t.Helper()
	token, err := auth.IssueToken(user)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func TestAccessGuardPublicPath(t *testing.T) {
	auth := service.NewAuthService(testConfig("development"))
	r := guardedRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccessGuardAnonymousAPI(t *testing.T) {
	auth := service.NewAuthService(testConfig("development"))
	r := guardedRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessGuardAnonymousPageRedirects(t *testing.T) {
	auth := service.NewAuthService(testConfig("development"))
	r := guardedRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestAccessGuardValidCookie(t *testing.T) {
	auth := service.NewAuthService(testConfig("development"))
	r := guardedRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.AddCookie(issueCookie(t, auth, model.SessionUser{ID: 7, Role: model.RoleStudent}))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestAccessGuardTamperedCookie(t *testing.T) {
	auth := service.NewAuthService(testConfig("development"))
	other := service.NewAuthService(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour})
	r := guardedRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.AddCookie(issueCookie(t, other, model.SessionUser{ID: 7, Role: model.RoleStudent}))
	r.ServeHTTP(w, req)

	// Forged and missing cookies are indistinguishable.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessGuardAttachesIdentityOnPublicPath(t *testing.T) {
	auth := service.NewAuthService(testConfig("development"))
	r := guardedRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/probe", nil)
	req.AddCookie(issueCookie(t, auth, model.SessionUser{ID: 7, Role: model.RoleStudent}))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"anonymous":false`)
}

func TestAccessGuardPassThroughHeaders(t *testing.T) {
	auth := service.NewAuthService(testConfig("development"))
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AccessGuard(auth))
	r.GET("/api/v1/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.GetHeader(HeaderUserID),
			"role": c.GetHeader(HeaderUserRole),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/echo", nil)
	// A client-supplied header must be overwritten by the guard.
	req.Header.Set(HeaderUserID, "999")
	req.AddCookie(issueCookie(t, auth, model.SessionUser{ID: 7, Role: model.RoleTeacher}))
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"id":"7"`)
	assert.Contains(t, w.Body.String(), `"role":"TEACHER"`)
}

func TestSessionCookieAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		env    string
		secure bool
	}{
		{"development", false},
		{"production", true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := testConfig(tt.env)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)

			SetSessionCookie(c, cfg, "sometoken")

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			cookie := cookies[0]
			assert.Equal(t, SessionCookieName, cookie.Name)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, 86400, cookie.MaxAge)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
			assert.Equal(t, tt.secure, cookie.Secure)
		})
	}
}

func TestClearSessionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)

	ClearSessionCookie(c, testConfig("development"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
