package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-bff/internal/session"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireSession verifies the bearer session token, resolves the caller's
// session container and injects identity into the request context.
// Role/permission checks belong to internal/rbac.
func RequireSession(m *Manager, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "missing bearer token"}})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Verify(tok, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "invalid session token"}})
			return
		}

		sid := claims.SessionID()
		container := sessions.GetOrCreate(sid)

		// A valid token is proof of authentication; restore the container
		// after a process restart instead of forcing a re-login.
		if !container.State().IsAuthenticated {
			container.SetAuthenticated(claims.User())
		}

		ctx := WithIdentity(c.Request.Context(), sid, claims.User())
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler convenience.
		c.Set("session_id", sid)

		c.Next()
	}
}
