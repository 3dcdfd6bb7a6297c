package middleware

import (
	"net/http"

	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireRole gates an action on the caller's role. The role embedded
// in the session token is trusted as-is for the token's lifetime; no
// handler re-reads the credential store.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}

		if user.Role != role {
			code := response.ErrForbidden
			switch role {
			case model.RoleTeacher:
				code = response.ErrTeacherAccessOnly
			case model.RoleStudent:
				code = response.ErrStudentAccessOnly
			}
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}

		c.Next()
	}
}
