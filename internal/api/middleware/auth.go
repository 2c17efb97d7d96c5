package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
)

type contextKey string

const (
	// UserKey holds the *domain.User resolved by the auth gate.
	UserKey contextKey = "user"

	// AccessTokenCookie and RefreshTokenCookie carry the signed tokens.
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Auth is the gate in front of protected routes. It reads the access-token
// cookie, verifies it and resolves the session cache entry; a valid token
// whose session was evicted is rejected, which is how logout and password
// changes revoke outstanding tokens.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
				return
			}

			user, err := authService.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] authentication failed: %v", err)
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					http.Error(w, domain.ErrTokenExpired.Error(), http.StatusUnauthorized)
				case errors.Is(err, domain.ErrSessionNotFound):
					http.Error(w, domain.ErrSessionNotFound.Error(), http.StatusUnauthorized)
				case errors.Is(err, domain.ErrTokenInvalid):
					http.Error(w, domain.ErrTokenInvalid.Error(), http.StatusUnauthorized)
				default:
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows only the listed roles past it. It composes after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
				return
			}

			if !allowed[user.Role] {
				log.Printf("ERROR [middleware.RequireRole] role %q denied for %s %s", user.Role, r.Method, r.URL.Path)
				http.Error(w, "role "+user.Role+" is not allowed to access this resource", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUser returns the identity attached by the auth gate.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok
}
