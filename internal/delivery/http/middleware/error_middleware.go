package middleware

import (
	"errors"
	"net/http"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				var details interface{}
				if appErr.Details != nil {
					details = appErr.Details
				}
				if appErr.Err != nil {
					// Wrapped cause stays server-side only
					logger.Log.Error("Request failed", "code", appErr.Code, "error", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message, details)
				return
			}

			// Never expose internal error details to clients. Log the actual
			// error server-side and send a generic message.
			logger.Log.Error("Internal server error", "error", err)
			response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
		}
	}
}
