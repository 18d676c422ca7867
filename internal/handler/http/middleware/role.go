package middleware

import (
	"fmt"
	"net/http"

	"github.com/servicedesk/helpdesk-backend-go/internal/domain/user"
	"github.com/servicedesk/helpdesk-backend-go/internal/handler/http/response"
)

// RequirePermission checks if the caller's role has a specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(principal.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, principal.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin requires the super_admin role
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok || principal.Role != user.RoleSuperAdmin {
			response.HandleError(w, user.ErrSuperAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
