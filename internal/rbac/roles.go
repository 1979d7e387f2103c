package rbac

// Role names. Keep these stable; they are part of the upstream auth contract.
const (
	RoleCustomer     = "customer"
	RoleMerchandiser = "merchandiser"
	RoleSupport      = "support"
	RoleAdmin        = "admin"
)

// Permission names used by the admin surface.
const (
	PermCacheInvalidate = "cache:invalidate"
)

func IsAdmin(roles []string) bool {
	for _, r := range roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
