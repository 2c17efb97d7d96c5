package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/api/middleware"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateInfoRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateAvatarRequest struct {
	Key string `json:"key"`
}

type UpdateRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (h *UserHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var req UpdateInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.userService.UpdateInfo(r.Context(), user.ID, service.UpdateInfoInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			http.Error(w, domain.ErrInvalidEmail.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrEmailExists):
			http.Error(w, "Email already exists", http.StatusBadRequest)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, domain.ErrUserNotFound.Error(), http.StatusNotFound)
		default:
			log.Printf("ERROR [user.UpdateInfo] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "user": updated})
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		http.Error(w, "Old and new password are required", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 6 {
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	updated, err := h.userService.UpdatePassword(r.Context(), user.ID, service.UpdatePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPasswordNotSet):
			http.Error(w, domain.ErrPasswordNotSet.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidCredentials):
			http.Error(w, "Invalid old password", http.StatusBadRequest)
		default:
			log.Printf("ERROR [user.UpdatePassword] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "user": updated})
}

// AvatarUploadURL hands out a presigned PUT target; the client uploads the
// image directly to the bucket and then calls UpdateAvatar with the key.
func (h *UserHandler) AvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.userService.AvatarUploadURL(r.Context())
	if err != nil {
		log.Printf("ERROR [user.AvatarUploadURL] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"key":       key,
		"uploadUrl": url,
	})
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var req UpdateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Key == "" {
		http.Error(w, "Avatar key is required", http.StatusBadRequest)
		return
	}

	updated, err := h.userService.UpdateAvatar(r.Context(), user.ID, req.Key)
	if err != nil {
		log.Printf("ERROR [user.UpdateAvatar] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "user": updated})
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAll(r.Context())
	if err != nil {
		log.Printf("ERROR [user.GetAll] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "users": users})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	updated, err := h.userService.UpdateRole(r.Context(), userID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, domain.ErrUserNotFound.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			http.Error(w, "Invalid role", http.StatusBadRequest)
		default:
			log.Printf("ERROR [user.UpdateRole] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "user": updated})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, domain.ErrUserNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Printf("ERROR [user.Delete] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "User deleted successfully",
	})
}
