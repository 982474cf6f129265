package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/app/services"
	"github.com/campusdesk/campusdesk/internal/middleware"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
)

// NotificationController serves the reporter-facing notification feed
type NotificationController struct {
	notificationService *services.NotificationService
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the caller's recent notifications plus the unread count
func (c *NotificationController) List(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	resp, err := c.notificationService.List(ctx, middleware.CurrentUserID(ctx), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// MarkRead flags one notification as read, or every unread one when the
// path parameter is the literal "all".
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	if ctx.Param("id") == "all" {
		if err := c.notificationService.MarkAllRead(ctx, userID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewMessageResponse("Notifications marked as read"))
		return
	}

	notificationID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || notificationID <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid ID parameter"))
		return
	}

	if err := c.notificationService.MarkRead(ctx, userID, notificationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Notifications marked as read"))
}
