package middleware

import (
	"errors"
	"net/http"

	"go-millet-backend/internal/delivery/http/response"
	"go-millet-backend/pkg/apperror"
	"go-millet-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler drains errors attached to the context and shapes the final
// JSON body. Expected failures arrive as AppErrors with their status;
// anything else is logged server-side and reduced to a generic 500 so no
// internal detail leaks to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Code >= http.StatusInternalServerError {
					logger.Log.Error("request failed", "path", c.Request.URL.Path, "error", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("unexpected error", "path", c.Request.URL.Path, "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
