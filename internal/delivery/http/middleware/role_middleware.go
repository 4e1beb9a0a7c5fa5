package middleware

import (
	"net/http"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/pkg/response"
)

// RequireRole creates a middleware that checks if the staff member has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowed ...entity.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.StaffRoleAdmin)(next)
}

// RequireDoctor lets doctors through, plus admins for corrections
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.StaffRoleDoctor, entity.StaffRoleAdmin)(next)
}

// RequireFrontDesk is for patient registration, booking and check-in
func RequireFrontDesk(next http.Handler) http.Handler {
	return RequireRole(entity.StaffRoleReceptionist, entity.StaffRoleNurse, entity.StaffRoleAdmin)(next)
}

// RequireCashier is for settlement
func RequireCashier(next http.Handler) http.Handler {
	return RequireRole(entity.StaffRoleCashier, entity.StaffRoleAdmin)(next)
}
