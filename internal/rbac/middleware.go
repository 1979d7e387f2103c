package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-bff/internal/auth"
)

// RequireAnyRole allows access if the session user holds any of the
// provided roles. admin bypasses all role checks.
func RequireAnyRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		u, err := auth.UserFromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "session required"}})
			return
		}

		if IsAdmin(u.Roles) {
			c.Next()
			return
		}
		for _, r := range u.Roles {
			if _, ok := allowedSet[r]; ok {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "forbidden"}})
	}
}

// RequirePermission allows access if the session user carries the named
// permission. Unlike roles, permissions are exact grants: admin does not
// bypass them, so a destructive grant stays explicit.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := auth.UserFromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "session required"}})
			return
		}
		for _, p := range u.Permissions {
			if p == perm {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "forbidden"}})
	}
}
