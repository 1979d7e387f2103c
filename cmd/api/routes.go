package main

import (
	"github.com/gin-gonic/gin"

	"storefront-bff/internal/bff"
	"storefront-bff/internal/metrics"
	"storefront-bff/internal/rbac"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h *bff.Handlers, sessionMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/bff")
	{
		// Login and the category proxy are public: categories feed the shop
		// navigation before any sign-in.
		api.POST("/auth/login", h.Login)
		api.GET("/categories", h.Categories)

		authed := api.Group("")
		authed.Use(sessionMW)
		{
			authed.POST("/auth/logout", h.Logout)
			authed.GET("/me", h.Me)
			authed.PUT("/me/profile", h.UpdateProfile)

			// ADMIN routes: inventory screen plus cache controls.
			admin := authed.Group("/admin")
			admin.Use(rbac.RequireAnyRole(rbac.RoleMerchandiser, rbac.RoleSupport))
			{
				admin.GET("/products", h.SearchProducts)
				admin.POST("/cache/invalidate", rbac.RequirePermission(rbac.PermCacheInvalidate), h.InvalidateCache)
			}
		}
	}
}
