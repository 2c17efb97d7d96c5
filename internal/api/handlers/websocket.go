package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/priya/course-platform/internal/api/middleware"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
	"github.com/priya/course-platform/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams admin notifications over a one-way socket.
type WebSocketHandler struct {
	hub         *ws.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *ws.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on WebSocket requests, so the token
	// arrives as a query parameter; the cookie works as a fallback.
	token := r.URL.Query().Get("token")
	if token == "" {
		if cookie, err := r.Cookie(middleware.AccessTokenCookie); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			http.Error(w, domain.ErrTokenExpired.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	if user.Role != domain.RoleAdmin {
		http.Error(w, "role "+user.Role+" is not allowed to access this resource", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR [ws.Handle] upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
