package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/mail"
	"github.com/priya/course-platform/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderService struct {
	orderRepo     repository.OrderRepository
	courseRepo    repository.CourseRepository
	userRepo      repository.UserRepository
	sessions      *cache.SessionStore
	catalog       *cache.CatalogCache
	mailer        Mailer
	notifications *NotificationService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	sessions *cache.SessionStore,
	catalog *cache.CatalogCache,
	mailer Mailer,
	notifications *NotificationService,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		sessions:      sessions,
		catalog:       catalog,
		mailer:        mailer,
		notifications: notifications,
	}
}

type CreateOrderInput struct {
	CourseID    uuid.UUID
	PaymentInfo datatypes.JSON
}

// Create places an order: it enrolls the user, refreshes their session
// snapshot, bumps the course purchase counter and records a notification.
// The confirmation mail is best-effort.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*domain.Order, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if user.Enrolled(input.CourseID) {
		return nil, domain.ErrAlreadyPurchased
	}

	course, err := s.courseRepo.GetByID(ctx, input.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	order := &domain.Order{
		ID:          uuid.New(),
		CourseID:    course.ID,
		UserID:      user.ID,
		PaymentInfo: input.PaymentInfo,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := user.Enroll(course.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	// Keep the session snapshot in step with the new enrollment.
	if err := s.sessions.Set(ctx, user); err != nil {
		log.Printf("ERROR [order.Create] failed to refresh session cache for %s: %v", user.ID, err)
	}

	course.Purchased++
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	if err := s.catalog.Invalidate(ctx, course.ID); err != nil {
		log.Printf("ERROR [order.Create] failed to invalidate catalog cache: %v", err)
	}

	s.notifications.Create(ctx, user.ID, "New Order",
		"You have a new order from "+course.Name)

	data := mail.OrderData{
		Name:        user.Name,
		OrderID:     order.ID.String()[:6],
		CourseName:  course.Name,
		Price:       course.Price,
		OrderedDate: time.Now().Format("January 2, 2006"),
	}
	if err := s.mailer.Send(user.Email, "Order Confirmation", "order_confirmation", data); err != nil {
		log.Printf("ERROR [order.Create] failed to send confirmation mail: %v", err)
	}

	return order, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.GetAll(ctx)
}
