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

// IssueController handles issue reporting and lifecycle operations
type IssueController struct {
	issueService *services.IssueService
	logger       zerolog.Logger
}

// NewIssueController creates a new IssueController
func NewIssueController(issueService *services.IssueService, logger zerolog.Logger) *IssueController {
	return &IssueController{
		issueService: issueService,
		logger:       logger,
	}
}

// Create reports a new issue on behalf of the caller
func (c *IssueController) Create(ctx *gin.Context) {
	var req dto.CreateIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid issue creation payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.issueService.Create(ctx, middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListMine returns the caller's own issues
func (c *IssueController) ListMine(ctx *gin.Context) {
	resp, err := c.issueService.ListForUser(ctx, middleware.CurrentUserID(ctx), listParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListAll returns issues across all reporters, for admin triage
func (c *IssueController) ListAll(ctx *gin.Context) {
	resp, err := c.issueService.ListAll(ctx, listParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Get returns one issue with its history and attachments
func (c *IssueController) Get(ctx *gin.Context) {
	issueID, err := pathID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.issueService.GetByID(ctx, middleware.CurrentUserID(ctx), middleware.CurrentRole(ctx), issueID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateStatus moves an issue to a new lifecycle status
func (c *IssueController) UpdateStatus(ctx *gin.Context) {
	issueID, err := pathID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.issueService.UpdateStatus(ctx, middleware.CurrentUserID(ctx), issueID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

func pathID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("Invalid ID parameter")
	}
	return id, nil
}

func listParams(ctx *gin.Context) dto.ListIssuesParams {
	params := dto.ListIssuesParams{
		Status: ctx.Query("status"),
	}
	if raw := ctx.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	return params
}
