package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/app/services"
	"github.com/campusdesk/campusdesk/internal/middleware"
)

// CategoryController serves the reporting categories
type CategoryController struct {
	categoryService *services.CategoryService
	logger          zerolog.Logger
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService *services.CategoryService, logger zerolog.Logger) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		logger:          logger,
	}
}

// List returns all active reporting categories
func (c *CategoryController) List(ctx *gin.Context) {
	categories, err := c.categoryService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories))
}
