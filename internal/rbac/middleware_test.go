package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront-bff/internal/auth"
	"storefront-bff/internal/session"
)

func routerWithUser(u *session.User, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	handlers := []gin.HandlerFunc{func(c *gin.Context) {
		if u != nil {
			ctx := auth.WithIdentity(c.Request.Context(), "sid-1", u)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}}
	handlers = append(handlers, mw...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(200) })
	r.GET("/x", handlers...)
	return r
}

func get(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAnyRole_AdminBypasses(t *testing.T) {
	r := routerWithUser(&session.User{Roles: []string{RoleAdmin}}, RequireAnyRole(RoleMerchandiser))
	if code := get(r); code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRequireAnyRole_DeniesMissingRole(t *testing.T) {
	r := routerWithUser(&session.User{Roles: []string{RoleCustomer}}, RequireAnyRole(RoleMerchandiser))
	if code := get(r); code != 403 {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRequireAnyRole_RequiresSession(t *testing.T) {
	r := routerWithUser(nil, RequireAnyRole(RoleCustomer))
	if code := get(r); code != 401 {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestRequirePermission_ExactGrantOnly(t *testing.T) {
	// admin role alone does not grant the permission.
	r := routerWithUser(&session.User{Roles: []string{RoleAdmin}}, RequirePermission(PermCacheInvalidate))
	if code := get(r); code != 403 {
		t.Fatalf("expected 403 for admin without grant, got %d", code)
	}

	r = routerWithUser(&session.User{Permissions: []string{PermCacheInvalidate}}, RequirePermission(PermCacheInvalidate))
	if code := get(r); code != 200 {
		t.Fatalf("expected 200 with grant, got %d", code)
	}
}
