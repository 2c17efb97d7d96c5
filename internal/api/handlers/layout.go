package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
)

type LayoutHandler struct {
	layoutService *service.LayoutService
}

func NewLayoutHandler(layoutService *service.LayoutService) *LayoutHandler {
	return &LayoutHandler{layoutService: layoutService}
}

type LayoutRequest struct {
	Type       string              `json:"type"`
	Banner     *domain.Banner      `json:"banner"`
	FAQ        []domain.FaqItem    `json:"faq"`
	Categories []domain.TitledItem `json:"categories"`
}

func (r LayoutRequest) toInput() service.LayoutInput {
	return service.LayoutInput{
		Type:       r.Type,
		Banner:     r.Banner,
		FAQ:        r.FAQ,
		Categories: r.Categories,
	}
}

func (h *LayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !domain.ValidLayoutType(req.Type) {
		http.Error(w, "Invalid layout type", http.StatusBadRequest)
		return
	}

	layout, err := h.layoutService.Create(r.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrLayoutExists) {
			http.Error(w, domain.ErrLayoutExists.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [layout.Create] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "layout": layout})
}

func (h *LayoutHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !domain.ValidLayoutType(req.Type) {
		http.Error(w, "Invalid layout type", http.StatusBadRequest)
		return
	}

	layout, err := h.layoutService.Edit(r.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrLayoutNotFound) {
			http.Error(w, domain.ErrLayoutNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Printf("ERROR [layout.Edit] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "layout": layout})
}

func (h *LayoutHandler) GetByType(w http.ResponseWriter, r *http.Request) {
	layoutType := r.URL.Query().Get("type")
	if !domain.ValidLayoutType(layoutType) {
		http.Error(w, "Invalid layout type", http.StatusBadRequest)
		return
	}

	layout, err := h.layoutService.GetByType(r.Context(), layoutType)
	if err != nil {
		if errors.Is(err, domain.ErrLayoutNotFound) {
			http.Error(w, domain.ErrLayoutNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Printf("ERROR [layout.GetByType] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "layout": layout})
}
