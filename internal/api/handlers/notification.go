package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.GetAll(r.Context())
	if err != nil {
		log.Printf("ERROR [notification.GetAll] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "notifications": notifications})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	notification, err := h.notificationService.MarkRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			http.Error(w, domain.ErrNotificationNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Printf("ERROR [notification.MarkRead] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "notification": notification})
}
