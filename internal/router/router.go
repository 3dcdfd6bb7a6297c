package router

import (
	"net/http"
	"time"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/handler"
	"github.com/classtrack/classtrack-backend/internal/middleware"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/response"
	"github.com/classtrack/classtrack-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Subject    *handler.SubjectHandler
	Task       *handler.TaskHandler
	Submission *handler.SubmissionHandler
	Upload     *handler.UploadHandler
	Dashboard  *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// Session cookies require credentialed CORS, which forbids the
	// wildcard origin. Without configured origins, fall back to the
	// local dev frontend.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Every request passes the session guard: public paths go through
	// untouched, API requests without a valid cookie get 401, page
	// requests get redirected to the login page.
	router.Use(middleware.AccessGuard(authService))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"service": "classtrack"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireSession(), handlers.Auth.Me)
	}

	// ─── 2. Subjects ───────────────────────────────────────────────────
	subjects := router.Group("/api/v1/subjects")
	subjects.Use(middleware.RequireSession())
	{
		subjects.GET("", handlers.Subject.List)
		subjects.GET("/:id", handlers.Subject.Get)

		subjects.POST("", middleware.RequireRole(model.RoleTeacher), handlers.Subject.Create)
		subjects.PUT("/:id", middleware.RequireRole(model.RoleTeacher), handlers.Subject.Update)
		subjects.DELETE("/:id", middleware.RequireRole(model.RoleTeacher), handlers.Subject.Delete)

		subjects.POST("/:id/enroll", middleware.RequireRole(model.RoleStudent), handlers.Subject.Enroll)
		subjects.DELETE("/:id/enroll", middleware.RequireRole(model.RoleStudent), handlers.Subject.Unenroll)
	}

	// ─── 3. Tasks & Submissions ────────────────────────────────────────
	tasks := router.Group("/api/v1/tasks")
	tasks.Use(middleware.RequireSession())
	{
		tasks.GET("", handlers.Task.List)
		tasks.GET("/:id", handlers.Task.Get)

		tasks.POST("", middleware.RequireRole(model.RoleTeacher), handlers.Task.Create)
		tasks.PUT("/:id", middleware.RequireRole(model.RoleTeacher), handlers.Task.Update)
		tasks.DELETE("/:id", middleware.RequireRole(model.RoleTeacher), handlers.Task.Delete)

		tasks.GET("/:id/submissions", handlers.Submission.List)
		tasks.POST("/:id/submissions", middleware.RequireRole(model.RoleStudent), handlers.Submission.Submit)
		tasks.PUT("/:id/submissions/:submissionID/grade", middleware.RequireRole(model.RoleTeacher), handlers.Submission.Grade)
		tasks.GET("/:id/submissions/:submissionID/files/:fileID", handlers.Submission.DownloadFile)

		tasks.POST("/:id/uploads", middleware.RequireRole(model.RoleStudent), handlers.Upload.Upload)
	}

	// ─── 4. Dashboard ──────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireSession())
	{
		api.GET("/dashboard", handlers.Dashboard.Stats)
	}

	return router
}
