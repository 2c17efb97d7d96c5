package handlers

import (
	"net/http"

	"github.com/priya/course-platform/internal/api/middleware"
	"github.com/priya/course-platform/internal/config"
)

// setAuthCookies writes the token pair. Both cookies are httpOnly with
// SameSite=Lax; Secure is added in production. Max-Age uses the same
// configured lifetime as the token's exp claim.
func setAuthCookies(w http.ResponseWriter, cfg *config.Config, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(cfg.AccessTokenExpire.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.IsProduction(),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(cfg.RefreshTokenExpire.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.IsProduction(),
	})
}

// clearAuthCookies expires both cookies immediately.
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
