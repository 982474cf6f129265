package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/app/services"
	"github.com/campusdesk/campusdesk/internal/middleware"
)

// AnalyticsController serves the admin dashboard aggregates
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
	logger           zerolog.Logger
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService *services.AnalyticsService, logger zerolog.Logger) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetDashboard returns issue totals, breakdowns and recent issues
func (c *AnalyticsController) GetDashboard(ctx *gin.Context) {
	resp, err := c.analyticsService.GetDashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
