package middleware

import (
	"fmt"
	"net/http"

	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Recovery catches any uncaught failure, reports it to Sentry with request
// context, and surfaces a generic failure with no internal detail leaked.
func Recovery(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic recovered: %v", r)
				logger.System().Error("Unexpected failure in request handler",
					"error", err.Error(),
					"path", c.Request.URL.Path,
					"method", c.Request.Method)

				if hub := sentry.CurrentHub().Clone(); hub != nil {
					hub.Scope().SetRequest(c.Request)
					hub.CaptureException(err)
				}

				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
				c.Abort()
			}
		}()
		c.Next()
	}
}
