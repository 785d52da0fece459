package utils

import (
	"errors"
	"net/http"

	"podstudio/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger := GetLogger()
				logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	logger := GetLogger()
	logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusForKind maps a domain error kind to its HTTP status.
func StatusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindReferenceNotFound:
		return http.StatusUnprocessableEntity
	case models.KindReservationNotFound:
		return http.StatusNotFound
	case models.KindInvalidStateTransition, models.KindSlotNoLongerAvailable:
		return http.StatusConflict
	case models.KindConfiguration, models.KindUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err using its domain kind. Internal causes are logged,
// never returned to the client.
func RespondError(c *gin.Context, err error) {
	var de *models.DomainError
	if !errors.As(err, &de) {
		GetLogger().Error("unclassified error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error", Kind: string(models.KindUnknown)})
		return
	}

	status := StatusForKind(de.Kind)
	if status >= http.StatusInternalServerError {
		GetLogger().Error("request failed", zap.String("path", c.FullPath()), zap.String("kind", string(de.Kind)), zap.Error(err))
		c.JSON(status, ErrorResponse{Message: "Internal Server Error", Kind: string(de.Kind)})
		return
	}
	GetLogger().Debug("request rejected", zap.String("path", c.FullPath()), zap.String("kind", string(de.Kind)), zap.String("message", de.Message))
	c.JSON(status, ErrorResponse{Message: de.Message, Kind: string(de.Kind)})
}
