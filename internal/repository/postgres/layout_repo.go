package postgres

import (
	"context"

	"github.com/priya/course-platform/internal/domain"
	"gorm.io/gorm"
)

type layoutRepository struct {
	db *gorm.DB
}

func NewLayoutRepository(db *gorm.DB) *layoutRepository {
	return &layoutRepository{db: db}
}

func (r *layoutRepository) Create(ctx context.Context, layout *domain.Layout) error {
	return r.db.WithContext(ctx).Create(layout).Error
}

func (r *layoutRepository) GetByType(ctx context.Context, layoutType string) (*domain.Layout, error) {
	var layout domain.Layout
	err := r.db.WithContext(ctx).First(&layout, "type = ?", layoutType).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (r *layoutRepository) Update(ctx context.Context, layout *domain.Layout) error {
	return r.db.WithContext(ctx).Save(layout).Error
}
