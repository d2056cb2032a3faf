package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vbank/vbank-api/internal/pkg/jwt"
	"github.com/vbank/vbank-api/internal/pkg/response"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the resolved caller identity. Downstream services trust it;
// role is never re-derived from storage.
type Principal struct {
	UserID    uuid.UUID
	Role      string
	ManagerID *uuid.UUID
	ClientID  *uuid.UUID
}

// IsAdmin returns true if the caller holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// Auth returns middleware that validates JWT and attaches the principal
func Auth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			principal := Principal{
				UserID:    claims.UserID,
				Role:      claims.Role,
				ManagerID: claims.ManagerID,
				ClientID:  claims.ClientID,
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the caller principal from context
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if p, ok := GetPrincipal(ctx); ok {
		return p.UserID
	}
	return uuid.Nil
}

// RequireRole returns middleware that checks user role
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r.Context())
			if !ok {
				response.Unauthorized(w, "unauthorized")
				return
			}

			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireAdmin returns middleware that requires admin role
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole("admin")
}

// RequireManager returns middleware that requires manager role
func RequireManager() func(http.Handler) http.Handler {
	return RequireRole("manager")
}

// RequireClient returns middleware that requires client role
func RequireClient() func(http.Handler) http.Handler {
	return RequireRole("client")
}
