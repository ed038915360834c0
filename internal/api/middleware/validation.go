package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"retrofit_risk/internal/api/dto"
)

// ValidateJSON binds the request body and writes a structured 400
// response on failure. Returns false when the request was rejected.
func ValidateJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var errorMessage string
		var errorCode string

		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errorMessages := make([]string, 0, len(validationErrors))
			for _, validationError := range validationErrors {
				errorMessages = append(errorMessages, formatValidationError(validationError))
			}
			errorMessage = strings.Join(errorMessages, "; ")
			errorCode = "VALIDATION_ERROR"
		} else {
			errorMessage = "Invalid JSON format"
			errorCode = "INVALID_JSON"
		}

		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Success: false,
			Error: &dto.APIError{
				Code:    errorCode,
				Message: errorMessage,
				Details: err.Error(),
			},
		})
		return false
	}
	return true
}

// formatValidationError converts validator errors to human-readable messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be greater than " + err.Param()
	case "gte":
		return field + " must be greater than or equal to " + err.Param()
	case "min":
		return field + " must be at least " + err.Param()
	case "max":
		return field + " must be at most " + err.Param()
	case "oneof":
		return field + " must be one of: " + err.Param()
	default:
		return field + " is invalid"
	}
}
