package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/priya/course-platform/internal/api/handlers"
	"github.com/priya/course-platform/internal/api/middleware"
	"github.com/priya/course-platform/internal/config"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
	"github.com/priya/course-platform/internal/ws"
)

func NewRouter(services *service.Services, hub *ws.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.Origin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	userHandler := handlers.NewUserHandler(services.User)
	courseHandler := handlers.NewCourseHandler(services.Course)
	orderHandler := handlers.NewOrderHandler(services.Order)
	layoutHandler := handlers.NewLayoutHandler(services.Layout)
	notificationHandler := handlers.NewNotificationHandler(services.Notification)
	analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/activate", authHandler.Activate)
			r.Post("/login", authHandler.Login)
			r.Post("/social", authHandler.SocialAuth)
			r.Get("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Get("/logout", authHandler.Logout)
			})
		})

		// Course routes
		r.Route("/courses", func(r chi.Router) {
			// Public catalog
			r.Get("/", courseHandler.GetAllPublic)
			r.Get("/{id}", courseHandler.GetPublic)

			// Enrolled-only content and discussion
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/{id}/content", courseHandler.GetContent)
				r.Put("/question", courseHandler.AddQuestion)
				r.Put("/answer", courseHandler.AddAnswer)
				r.Put("/{id}/review", courseHandler.AddReview)
			})

			// Admin course management
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Post("/", courseHandler.Create)
				r.Put("/{id}", courseHandler.Update)
				r.Put("/review-reply", courseHandler.AddReviewReply)
				r.Delete("/{id}", courseHandler.Delete)
			})
		})

		// Layout routes
		r.Route("/layout", func(r chi.Router) {
			r.Get("/", layoutHandler.GetByType)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Post("/", layoutHandler.Create)
				r.Put("/", layoutHandler.Edit)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// User routes
			r.Route("/users", func(r chi.Router) {
				r.Put("/me", userHandler.UpdateInfo)
				r.Put("/me/password", userHandler.UpdatePassword)
				r.Get("/me/avatar-upload", userHandler.AvatarUploadURL)
				r.Put("/me/avatar", userHandler.UpdateAvatar)

				// Admin user management
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Get("/", userHandler.GetAll)
					r.Put("/role", userHandler.UpdateRole)
					r.Delete("/{id}", userHandler.Delete)
				})
			})

			// Order routes
			r.Post("/orders", orderHandler.Create)

			// Admin dashboard
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Get("/orders", orderHandler.GetAll)
				r.Get("/notifications", notificationHandler.GetAll)
				r.Put("/notifications/{id}", notificationHandler.MarkRead)
				r.Get("/courses", courseHandler.GetAllAdmin)
				r.Get("/analytics/users", analyticsHandler.Users)
				r.Get("/analytics/courses", analyticsHandler.Courses)
				r.Get("/analytics/orders", analyticsHandler.Orders)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
