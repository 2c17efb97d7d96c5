package service

import (
	"context"
	"time"

	"github.com/priya/course-platform/internal/repository"
)

// AnalyticsService produces 12 rolling 28-day buckets of record counts for
// the admin dashboard.
type AnalyticsService struct {
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	orderRepo  repository.OrderRepository
}

func NewAnalyticsService(userRepo repository.UserRepository, courseRepo repository.CourseRepository, orderRepo repository.OrderRepository) *AnalyticsService {
	return &AnalyticsService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		orderRepo:  orderRepo,
	}
}

type MonthData struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type counter interface {
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

func (s *AnalyticsService) UsersLast12Months(ctx context.Context) ([]MonthData, error) {
	return last12Months(ctx, s.userRepo)
}

func (s *AnalyticsService) CoursesLast12Months(ctx context.Context) ([]MonthData, error) {
	return last12Months(ctx, s.courseRepo)
}

func (s *AnalyticsService) OrdersLast12Months(ctx context.Context) ([]MonthData, error) {
	return last12Months(ctx, s.orderRepo)
}

func last12Months(ctx context.Context, c counter) ([]MonthData, error) {
	data := make([]MonthData, 0, 12)
	now := time.Now().AddDate(0, 0, 1)

	for i := 11; i >= 0; i-- {
		end := now.AddDate(0, 0, -i*28)
		start := end.AddDate(0, 0, -28)

		count, err := c.CountCreatedBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}

		data = append(data, MonthData{
			Month: end.Format("Jan 2, 2006"),
			Count: count,
		})
	}

	return data, nil
}
