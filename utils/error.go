package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

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
	JSONErrorKind(c, status, "", message, details)
}

// JSONErrorKind is JSONError with the error kind attached for clients that branch on it.
func JSONErrorKind(c *gin.Context, status int, kind, message, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details), zap.String("kind", kind), zap.Int("status", status))
	c.JSON(status, ErrorResponse{Message: message, Details: details, Kind: kind})
}
