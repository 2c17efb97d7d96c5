package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LayoutBanner     = "Banner"
	LayoutFAQ        = "FAQ"
	LayoutCategories = "Categories"
)

// ValidLayoutType reports whether t names a known layout section.
func ValidLayoutType(t string) bool {
	return t == LayoutBanner || t == LayoutFAQ || t == LayoutCategories
}

// Layout holds one site-content section per type. At most one row per type
// exists; edits overwrite the row in place.
type Layout struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type       string         `json:"type" gorm:"uniqueIndex;not null"`
	Banner     datatypes.JSON `json:"banner,omitempty" gorm:"type:jsonb"`
	FAQ        datatypes.JSON `json:"faq,omitempty" gorm:"type:jsonb"`
	Categories datatypes.JSON `json:"categories,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type Banner struct {
	ImageKey string `json:"imageKey"`
	ImageURL string `json:"imageUrl"`
	Title    string `json:"title"`
	SubTitle string `json:"subTitle"`
}

type FaqItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (l *Layout) SetBanner(b Banner) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	l.Banner = raw
	return nil
}

func (l *Layout) SetFAQ(items []FaqItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	l.FAQ = raw
	return nil
}

func (l *Layout) SetCategories(items []TitledItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	l.Categories = raw
	return nil
}
