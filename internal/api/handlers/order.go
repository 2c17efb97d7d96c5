package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/api/middleware"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
	"gorm.io/datatypes"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type CreateOrderRequest struct {
	CourseID    string          `json:"courseId"`
	PaymentInfo json.RawMessage `json:"paymentInfo"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.Create(r.Context(), user.ID, service.CreateOrderInput{
		CourseID:    courseID,
		PaymentInfo: datatypes.JSON(req.PaymentInfo),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyPurchased):
			http.Error(w, domain.ErrAlreadyPurchased.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrCourseNotFound):
			http.Error(w, domain.ErrCourseNotFound.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrUserNotFound):
			http.Error(w, domain.ErrUserNotFound.Error(), http.StatusNotFound)
		default:
			log.Printf("ERROR [order.Create] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "order": order})
}

func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetAll(r.Context())
	if err != nil {
		log.Printf("ERROR [order.GetAll] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "orders": orders})
}
