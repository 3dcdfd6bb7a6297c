package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/response"
	"github.com/classtrack/classtrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "token"

	// ContextKeyUser is the Gin context key for the authenticated identity.
	ContextKeyUser = "session_user"

	// Pass-through headers exposing the identity to downstream handlers.
	// Set on the inbound request, never on the response.
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	// LoginPath is where anonymous page requests are redirected.
	LoginPath = "/login"
)

// publicExact and publicPrefixes form the allow-list of paths reachable
// without a session.
var (
	publicExact = map[string]bool{
		"/":         true,
		"/health":   true,
		"/login":    true,
		"/register": true,
	}
	publicPrefixes = []string{"/api/v1/auth/"}
)

// SetSessionCookie issues the session cookie: Path=/, HttpOnly,
// SameSite=Lax, Max-Age matching the token TTL, Secure in production.
func SetSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.JWTExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.IsProduction(),
	})
}

// ClearSessionCookie directs the client to discard the session cookie
// immediately. Token revocation is entirely client-side; the token
// itself stays valid until expiry.
func ClearSessionCookie(c *gin.Context, cfg *config.Config) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.IsProduction(),
	})
}

// AccessGuard intercepts every request. Public paths pass through
// untouched (with the identity attached when a valid cookie happens to
// be present). Everything else requires a valid session: API paths get
// a 401, page paths a redirect to the login entry point. A missing
// cookie and a failed verification are indistinguishable here; both
// mean anonymous.
func AccessGuard(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		user := sessionUser(c, auth)

		if isPublicPath(path) {
			if user != nil {
				attachIdentity(c, user)
			}
			c.Next()
			return
		}

		if user == nil {
			if strings.HasPrefix(path, "/api/") {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			} else {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
			}
			return
		}

		attachIdentity(c, user)
		c.Next()
	}
}

// RequireSession rejects anonymous callers with a 401. Used on routes
// under the public auth prefix that still need an identity.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}
		c.Next()
	}
}

// CurrentUser retrieves the authenticated identity from the Gin
// context, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.SessionUser {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := val.(*model.SessionUser)
	if !ok {
		return nil
	}
	return user
}

func sessionUser(c *gin.Context, auth *service.AuthService) *model.SessionUser {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == "" {
		return nil
	}
	user, err := auth.ValidateToken(cookie)
	if err != nil {
		return nil
	}
	return user
}

func attachIdentity(c *gin.Context, user *model.SessionUser) {
	c.Set(ContextKeyUser, user)
	c.Request.Header.Set(HeaderUserID, strconv.Itoa(user.ID))
	c.Request.Header.Set(HeaderUserRole, string(user.Role))
}

func isPublicPath(path string) bool {
	if publicExact[path] {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
