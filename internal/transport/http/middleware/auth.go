package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"devshare/internal/httputil"
	"devshare/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"

	// UserRoleKey is the context key for the authenticated user's role
	UserRoleKey contextKey = "user_role"
)

// UserProvisioner resolves an identity-provider subject to a local account,
// creating the account on first sight.
type UserProvisioner interface {
	Provision(ctx context.Context, idpSubject string) (*model.User, error)
}

// AuthMiddleware validates bearer tokens issued by the external identity
// provider and resolves the "sub" claim to a local account. Requests without
// a valid token are rejected.
func AuthMiddleware(jwtSecret string, users UserProvisioner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, status, errCode, errMsg := authenticate(r, jwtSecret, users)
			if user == nil {
				httputil.WriteError(w, status, errCode, errMsg)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			ctx = context.WithValue(ctx, UserRoleKey, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves a token when one is present and otherwise
// lets the request through anonymously. An invalid token is still rejected
// rather than silently downgraded.
func OptionalAuthMiddleware(jwtSecret string, users UserProvisioner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if extractToken(r) == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, status, errCode, errMsg := authenticate(r, jwtSecret, users)
			if user == nil {
				httputil.WriteError(w, status, errCode, errMsg)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			ctx = context.WithValue(ctx, UserRoleKey, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route on the admin role. Must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleKey).(string)
		if !ok || role != model.RoleAdmin {
			httputil.WriteForbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func authenticate(r *http.Request, jwtSecret string, users UserProvisioner) (*model.User, int, string, string) {
	tokenString := extractToken(r)
	if tokenString == "" {
		return nil, http.StatusUnauthorized, httputil.ErrCodeUnauthorized, "Missing authentication token"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return nil, http.StatusUnauthorized, model.CodeTokenExpired, "Access token has expired"
		}
		return nil, http.StatusUnauthorized, model.CodeTokenInvalid, "Invalid authentication token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, http.StatusUnauthorized, model.CodeTokenInvalid, "Invalid authentication token"
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return nil, http.StatusUnauthorized, model.CodeTokenInvalid, "Invalid token claims"
	}

	user, err := users.Provision(r.Context(), subject)
	if err != nil {
		return nil, http.StatusUnauthorized, httputil.ErrCodeUnauthorized, "Failed to resolve account"
	}
	if user.IsSuspended {
		return nil, http.StatusForbidden, httputil.ErrCodeForbidden, "Account suspended"
	}

	return user, 0, "", ""
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the access_token cookie for browser clients.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns the user ID and true if found, or 0 and false if not found.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// ViewerID returns the authenticated user's ID as a nullable pointer for
// endpoints that serve both anonymous and authenticated viewers.
func ViewerID(ctx context.Context) *int64 {
	if id, ok := GetUserIDFromContext(ctx); ok {
		return &id
	}
	return nil
}
