package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/repository"
	"gorm.io/gorm"
)

type NotificationService struct {
	repo     repository.NotificationRepository
	notifier Notifier
}

func NewNotificationService(repo repository.NotificationRepository, notifier Notifier) *NotificationService {
	return &NotificationService{
		repo:     repo,
		notifier: notifier,
	}
}

// Create records a notification and pushes it to live admin listeners.
// Failures are logged, not propagated: notifications never fail the flow
// that produced them.
func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, title, message string) {
	notification := &domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Status:  domain.NotificationUnread,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		log.Printf("ERROR [notification.Create] failed to store notification: %v", err)
		return
	}

	if s.notifier != nil {
		s.notifier.Broadcast(notification)
	}
}

func (s *NotificationService) GetAll(ctx context.Context) ([]*domain.Notification, error) {
	return s.repo.GetAll(ctx)
}

// MarkRead flips a notification to read.
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}

	notification.Status = domain.NotificationRead
	if err := s.repo.Update(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}
