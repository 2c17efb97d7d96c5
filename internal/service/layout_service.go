package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/repository"
	"gorm.io/gorm"
)

type LayoutService struct {
	repo repository.LayoutRepository
}

func NewLayoutService(repo repository.LayoutRepository) *LayoutService {
	return &LayoutService{repo: repo}
}

type LayoutInput struct {
	Type       string
	Banner     *domain.Banner
	FAQ        []domain.FaqItem
	Categories []domain.TitledItem
}

// Create adds one layout section; each type exists at most once.
func (s *LayoutService) Create(ctx context.Context, input LayoutInput) (*domain.Layout, error) {
	existing, err := s.repo.GetByType(ctx, input.Type)
	if err == nil && existing != nil {
		return nil, domain.ErrLayoutExists
	}

	layout := &domain.Layout{
		ID:   uuid.New(),
		Type: input.Type,
	}
	if err := applyLayout(layout, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// Edit overwrites the existing section of the given type.
func (s *LayoutService) Edit(ctx context.Context, input LayoutInput) (*domain.Layout, error) {
	layout, err := s.repo.GetByType(ctx, input.Type)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, err
	}

	if err := applyLayout(layout, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, layout); err != nil {
		return nil, err
	}
	return layout, nil
}

func (s *LayoutService) GetByType(ctx context.Context, layoutType string) (*domain.Layout, error) {
	layout, err := s.repo.GetByType(ctx, layoutType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, err
	}
	return layout, nil
}

func applyLayout(layout *domain.Layout, input LayoutInput) error {
	switch input.Type {
	case domain.LayoutBanner:
		if input.Banner != nil {
			return layout.SetBanner(*input.Banner)
		}
	case domain.LayoutFAQ:
		return layout.SetFAQ(input.FAQ)
	case domain.LayoutCategories:
		return layout.SetCategories(input.Categories)
	}
	return nil
}
