package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	GetAll(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetAll(ctx context.Context) ([]*domain.Order, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

type LayoutRepository interface {
	Create(ctx context.Context, layout *domain.Layout) error
	GetByType(ctx context.Context, layoutType string) (*domain.Layout, error)
	Update(ctx context.Context, layout *domain.Layout) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	GetAll(ctx context.Context) ([]*domain.Notification, error)
	Update(ctx context.Context, notification *domain.Notification) error
}

type Repositories struct {
	User         UserRepository
	Course       CourseRepository
	Order        OrderRepository
	Layout       LayoutRepository
	Notification NotificationRepository
}
