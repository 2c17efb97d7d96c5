package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Order struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CourseID    uuid.UUID      `json:"courseId" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	PaymentInfo datatypes.JSON `json:"paymentInfo" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
