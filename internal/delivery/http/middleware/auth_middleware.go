package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/pkg/jwt"
	"clinic-operations/pkg/response"

	"github.com/google/uuid"
)

type contextKey string

const (
	StaffIDKey contextKey = "staff_id"
	RoleKey    contextKey = "role"
	TokenIDKey contextKey = "token_id"
	traceKey   contextKey = "request_trace"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
}

func NewAuthMiddleware(jwtService *jwt.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		role, err := entity.ParseStaffRole(claims.Role)
		if err != nil {
			response.Unauthorized(w, "Unknown staff role")
			return
		}

		ctx := WithStaff(r.Context(), claims.StaffID, role)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithStaff stores the acting staff member in ctx.
func WithStaff(ctx context.Context, staffID uuid.UUID, role entity.StaffRole) context.Context {
	if trace, ok := ctx.Value(traceKey).(*requestTrace); ok {
		trace.staffID = &staffID
	}
	ctx = context.WithValue(ctx, StaffIDKey, staffID)
	return context.WithValue(ctx, RoleKey, role)
}

// GetStaffIDFromContext extracts staff ID from context
func GetStaffIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	staffID, ok := ctx.Value(StaffIDKey).(uuid.UUID)
	return staffID, ok
}

// GetRoleFromContext extracts staff role from context
func GetRoleFromContext(ctx context.Context) (entity.StaffRole, bool) {
	role, ok := ctx.Value(RoleKey).(entity.StaffRole)
	return role, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
