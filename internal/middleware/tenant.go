package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const tenantIDKey = contextKey("tenantID")
const actorIDKey = contextKey("actorID")

// Headers populated by the upstream gateway, which owns authentication and
// tenant resolution. The engine trusts these values and isolates purely by
// filtering on the tenant id.
const (
	TenantIDHeader = "X-Tenant-ID"
	ActorIDHeader  = "X-Actor-ID"
)

// TenantMiddleware extracts the tenant identity resolved by the upstream
// gateway and rejects requests that arrive without one. The optional actor
// id feeds the audit columns and defaults to "system".
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(TenantIDHeader)
		if tenantID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request missing tenant header",
				slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing tenant identity"})
			return
		}

		actorID := c.GetHeader(ActorIDHeader)
		if actorID == "" {
			actorID = "system"
		}

		c.Set(string(tenantIDKey), tenantID)
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetTenantIDFromContext retrieves the tenant id set by TenantMiddleware.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(tenantIDKey))
	if !exists {
		return "", false
	}
	tenantID, ok := val.(string)
	if !ok || tenantID == "" {
		return "", false
	}
	return tenantID, true
}

// GetActorIDFromContext retrieves the audit actor id, defaulting to "system".
func GetActorIDFromContext(c *gin.Context) string {
	val, exists := c.Get(string(actorIDKey))
	if !exists {
		return "system"
	}
	actorID, ok := val.(string)
	if !ok || actorID == "" {
		return "system"
	}
	return actorID
}
