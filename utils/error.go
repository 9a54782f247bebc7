package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the error body every endpoint returns: a short message
// customers and admins can read, and an optional details string for
// operators.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers from handler panics so a single bad request cannot
// take the server down, and answers with the standard error body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("handler panic",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// JSONError writes the standard error body and logs it. Client errors (4xx)
// log at warn, server errors at error.
func JSONError(c *gin.Context, status int, message string, details string) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
	}
	if details != "" {
		fields = append(fields, zap.String("details", details))
	}
	if status >= http.StatusInternalServerError {
		GetLogger().Error(message, fields...)
	} else {
		GetLogger().Warn(message, fields...)
	}
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
