package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/middleware"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
	"github.com/campusdesk/campusdesk/internal/pkg/filestorage"
)

// maxUploadSize caps issue attachments at 10 MB
const maxUploadSize = 10 << 20

// UploadController stores issue attachments and returns their URLs
type UploadController struct {
	storage filestorage.FileStorage
	logger  zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(storage filestorage.FileStorage, logger zerolog.Logger) *UploadController {
	return &UploadController{
		storage: storage,
		logger:  logger,
	}
}

// Upload stores a single multipart file and returns its public URL
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("No file uploaded"))
		return
	}
	if fileHeader.Size > maxUploadSize {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("File exceeds the 10MB limit"))
		return
	}

	fileURL, err := c.storage.SaveFile(fileHeader)
	if err != nil {
		c.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to store uploaded file")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UploadResponse{
		FileURL:  fileURL,
		MimeType: fileHeader.Header.Get("Content-Type"),
		FileSize: fileHeader.Size,
	}))
}
