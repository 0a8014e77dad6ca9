package middleware

import (
	"net/http"

	"github.com/HearthApp/hearth-go/internal/application/services"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// AdminOnly requires a valid admin token before any computation starts.
// The token is taken from the Authorization header or the admin_auth cookie.
func AdminOnly(authService *services.AuthService, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated := false

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			authenticated = authService.ValidateAdminRole(authHeader)
		}

		// A stale header must not suppress a valid cookie.
		if !authenticated {
			if adminCookie, err := c.Cookie("admin_auth"); err == nil {
				authenticated = authService.ValidateAdminRole("Bearer " + adminCookie)
			}
		}

		if !authenticated {
			logger.Auth().Warn("Unauthorized admin access attempt", "path", c.Request.URL.Path, "clientIp", c.ClientIP())
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
