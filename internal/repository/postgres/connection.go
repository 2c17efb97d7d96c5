package postgres

import (
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Course{},
		&domain.Order{},
		&domain.Layout{},
		&domain.Notification{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Course:       NewCourseRepository(db),
		Order:        NewOrderRepository(db),
		Layout:       NewLayoutRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
