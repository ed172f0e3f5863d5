package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wikihost/internal/core/apperror"
	"wikihost/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		writeError(c, c.Errors.Last().Err)
	}
}

// writeError renders err unless the handler already wrote a response.
func writeError(c *gin.Context, err error) {
	if c.Writer.Written() {
		return
	}

	if appErr, ok := apperror.AsAppError(err); ok {
		if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}
		// Causes of 5xx errors stay in the log.
		details := appErr.Details
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			details = map[string]any{"request_id": c.GetString("request_id")}
		}

		c.JSON(appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": details,
		})
		return
	}

	logger.Error(c.Request.Context(), "unhandled error",
		"error", err,
	)

	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    apperror.CodeInternal,
		"message": "Internal server error",
		"details": map[string]any{
			"request_id": c.GetString("request_id"),
		},
	})
}
