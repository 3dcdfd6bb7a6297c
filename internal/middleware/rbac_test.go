package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func roleRouter(user *model.SessionUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(ContextKeyUser, user)
			c.Next()
		})
	}
	r.POST("/subjects", RequireRole(model.RoleTeacher), func(c *gin.Context) {
		c.String(http.StatusCreated, "created")
	})
	r.POST("/enroll", RequireRole(model.RoleStudent), func(c *gin.Context) {
		c.String(http.StatusCreated, "enrolled")
	})
	return r
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	r := roleRouter(&model.SessionUser{ID: 1, Role: model.RoleTeacher})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/subjects", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequireRoleRejectsMismatch(t *testing.T) {
	r := roleRouter(&model.SessionUser{ID: 2, Role: model.RoleStudent})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/subjects", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "TEACHER_ACCESS_ONLY")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/enroll", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	r := roleRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/subjects", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
