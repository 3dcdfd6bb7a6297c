package handler

import (
	"net/http"

	"github.com/classtrack/classtrack-backend/internal/middleware"
	"github.com/classtrack/classtrack-backend/internal/response"
	"github.com/classtrack/classtrack-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard stats endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats godoc
// GET /api/v1/dashboard
// Returns role-specific counters, cached briefly per user.
func (h *DashboardHandler) Stats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), *user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
