package cache

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/domain"
)

const allCoursesKey = "allCourses"

func courseKey(id uuid.UUID) string {
	return "course:" + id.String()
}

// CatalogCache is the read-through cache in front of public course lookups.
// Cached values are already stripped of private content, so a hit can be
// served to anonymous clients directly.
type CatalogCache struct {
	store Store
}

func NewCatalogCache(store Store) *CatalogCache {
	return &CatalogCache{store: store}
}

func (c *CatalogCache) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	raw, err := c.store.Get(ctx, courseKey(id))
	if err != nil {
		return nil, err
	}
	var course domain.Course
	if err := json.Unmarshal([]byte(raw), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CatalogCache) SetCourse(ctx context.Context, course *domain.Course) error {
	raw, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, courseKey(course.ID), string(raw))
}

func (c *CatalogCache) GetAllCourses(ctx context.Context) ([]*domain.Course, error) {
	raw, err := c.store.Get(ctx, allCoursesKey)
	if err != nil {
		return nil, err
	}
	var courses []*domain.Course
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *CatalogCache) SetAllCourses(ctx context.Context, courses []*domain.Course) error {
	raw, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, allCoursesKey, string(raw))
}

// Invalidate drops the per-course key and the catalog listing after any
// course mutation.
func (c *CatalogCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.store.Delete(ctx, courseKey(id)); err != nil {
		return err
	}
	return c.store.Delete(ctx, allCoursesKey)
}
