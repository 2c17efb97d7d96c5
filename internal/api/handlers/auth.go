package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/priya/course-platform/internal/api/middleware"
	"github.com/priya/course-platform/internal/config"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Success         bool   `json:"success"`
	ActivationToken string `json:"activationToken"`
}

type ActivateRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SocialAuthRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

type AuthResponse struct {
	Success     bool         `json:"success"`
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}
	if !domain.ValidEmail(req.Email) {
		http.Error(w, "Please enter a valid email", http.StatusBadRequest)
		return
	}

	activationToken, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			http.Error(w, "Email already exists", http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrInvalidEmail) {
			http.Error(w, domain.ErrInvalidEmail.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [auth.Register] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RegisterResponse{
		Success:         true,
		ActivationToken: activationToken,
	})
}

func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ActivationToken == "" || req.ActivationCode == "" {
		http.Error(w, "Activation token and code are required", http.StatusBadRequest)
		return
	}

	_, err := h.authService.Activate(r.Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidActivationCode):
			http.Error(w, domain.ErrInvalidActivationCode.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrEmailExists):
			http.Error(w, "Email already exists", http.StatusBadRequest)
		case errors.Is(err, domain.ErrTokenExpired):
			http.Error(w, domain.ErrTokenExpired.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrTokenInvalid):
			http.Error(w, domain.ErrTokenInvalid.Error(), http.StatusBadRequest)
		default:
			log.Printf("ERROR [auth.Activate] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, domain.ErrInvalidCredentials.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [auth.Login] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{
		Success:     true,
		User:        result.User,
		AccessToken: result.AccessToken,
	})
}

func (h *AuthHandler) SocialAuth(w http.ResponseWriter, r *http.Request) {
	var req SocialAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Name == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.SocialAuth(r.Context(), service.SocialAuthInput{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		log.Printf("ERROR [auth.SocialAuth] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{
		Success:     true,
		User:        result.User,
		AccessToken: result.AccessToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		log.Printf("ERROR [auth.Logout] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	clearAuthCookies(w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Refresh exchanges a valid refresh-token cookie for a fresh pair. Every
// failure is the same 401: callers cannot distinguish an expired token from
// an evicted session.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		http.Error(w, "could not refresh token", http.StatusUnauthorized)
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			http.Error(w, "could not refresh token", http.StatusUnauthorized)
			return
		}
		log.Printf("ERROR [auth.Refresh] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "success",
		"accessToken": result.AccessToken,
	})
}

// Me returns the identity the gate resolved from the session cache.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"user":    user,
	})
}
