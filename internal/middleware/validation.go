package middleware

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/campusdesk/campusdesk/internal/app/models"
)

// RegisterValidators installs the custom binding rules used by request DTOs
// on gin's validator engine. Must run once before routes are served.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}

	return v.RegisterValidation("issuestatus", func(fl validator.FieldLevel) bool {
		return models.IsValidStatus(models.IssueStatus(fl.Field().String()))
	})
}
