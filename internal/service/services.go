package service

import (
	"context"

	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/config"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/repository"
	"github.com/priya/course-platform/internal/token"
)

// Mailer delivers a rendered template to one recipient.
type Mailer interface {
	Send(to, subject, templateName string, data any) error
}

// Assets issues presigned upload URLs and maps object keys to public URLs.
type Assets interface {
	PresignUpload(ctx context.Context, folder string) (string, string, error)
	PublicURL(key string) string
}

// Notifier pushes a freshly created notification to live listeners.
type Notifier interface {
	Broadcast(n *domain.Notification)
}

type Services struct {
	Auth         *AuthService
	User         *UserService
	Course       *CourseService
	Order        *OrderService
	Layout       *LayoutService
	Notification *NotificationService
	Analytics    *AnalyticsService
}

func NewServices(
	repos *repository.Repositories,
	cfg *config.Config,
	issuer *token.Issuer,
	sessions *cache.SessionStore,
	catalog *cache.CatalogCache,
	mailer Mailer,
	assets Assets,
	notifier Notifier,
) *Services {
	notification := NewNotificationService(repos.Notification, notifier)
	return &Services{
		Auth:         NewAuthService(repos.User, sessions, issuer, mailer),
		User:         NewUserService(repos.User, sessions, assets),
		Course:       NewCourseService(repos.Course, repos.User, catalog, mailer, notification),
		Order:        NewOrderService(repos.Order, repos.Course, repos.User, sessions, catalog, mailer, notification),
		Layout:       NewLayoutService(repos.Layout),
		Notification: notification,
		Analytics:    NewAnalyticsService(repos.User, repos.Course, repos.Order),
	}
}
