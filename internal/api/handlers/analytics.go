package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/priya/course-platform/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Users(w http.ResponseWriter, r *http.Request) {
	months, err := h.analyticsService.UsersLast12Months(r.Context())
	if err != nil {
		log.Printf("ERROR [analytics.Users] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeAnalytics(w, months)
}

func (h *AnalyticsHandler) Courses(w http.ResponseWriter, r *http.Request) {
	months, err := h.analyticsService.CoursesLast12Months(r.Context())
	if err != nil {
		log.Printf("ERROR [analytics.Courses] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeAnalytics(w, months)
}

func (h *AnalyticsHandler) Orders(w http.ResponseWriter, r *http.Request) {
	months, err := h.analyticsService.OrdersLast12Months(r.Context())
	if err != nil {
		log.Printf("ERROR [analytics.Orders] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeAnalytics(w, months)
}

func writeAnalytics(w http.ResponseWriter, months []service.MonthData) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"analytics": map[string]any{
			"last12Months": months,
		},
	})
}
