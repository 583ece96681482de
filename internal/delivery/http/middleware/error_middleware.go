package middleware

import (
	"errors"

	"portfolio-contact/internal/delivery/http/response"
	"portfolio-contact/pkg/apperror"
	"portfolio-contact/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// SECURITY: Never expose internal error details to clients.
			appErr = apperror.Internal(err)
		}

		if appErr.Err != nil {
			logger.Log.Error("request failed",
				"path", c.FullPath(),
				"status", appErr.Code,
				"error", appErr.Err,
				"request_id", c.GetString("RequestID"),
			)
		}
		response.Error(c, appErr.Code, appErr.Message, appErr.Details)
	}
}
