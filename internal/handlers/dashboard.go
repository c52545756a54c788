package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/dto"
	apierrors "github.com/maoucrm/crm/internal/errors"
	"github.com/maoucrm/crm/internal/middleware"
	"github.com/maoucrm/crm/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard recomputes the counts on every call
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	summary, err := h.dashboardService.Summary(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(*summary))
}
