package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name           string         `json:"name" gorm:"not null"`
	Description    string         `json:"description" gorm:"not null"`
	Categories     string         `json:"categories"`
	Price          float64        `json:"price" gorm:"not null"`
	EstimatedPrice float64        `json:"estimatedPrice"`
	ThumbnailKey   string         `json:"-"`
	ThumbnailURL   string         `json:"thumbnailUrl"`
	Tags           string         `json:"tags"`
	Level          string         `json:"level"`
	DemoURL        string         `json:"demoUrl"`
	Benefits       datatypes.JSON `json:"benefits" gorm:"type:jsonb"`
	Prerequisites  datatypes.JSON `json:"prerequisites" gorm:"type:jsonb"`
	Reviews        datatypes.JSON `json:"reviews" gorm:"type:jsonb"`
	Sections       datatypes.JSON `json:"sections" gorm:"type:jsonb"`
	Ratings        float64        `json:"ratings"`
	Purchased      int            `json:"purchased"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// TitledItem is a benefit or prerequisite bullet.
type TitledItem struct {
	Title string `json:"title"`
}

// SectionLink is an external resource attached to a course section.
type SectionLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Comment is a question or a reply inside a section's Q&A thread.
type Comment struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"userId"`
	Name    string    `json:"name"`
	Text    string    `json:"text"`
	Replies []Comment `json:"replies,omitempty"`
}

// Section is a single unit of course content. Video fields and Q&A are
// private: they are stripped from public course reads.
type Section struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	VideoURL     string        `json:"videoUrl,omitempty"`
	VideoSection string        `json:"videoSection,omitempty"`
	VideoLength  int           `json:"videoLength,omitempty"`
	VideoPlayer  string        `json:"videoPlayer,omitempty"`
	Links        []SectionLink `json:"links,omitempty"`
	Questions    []Comment     `json:"questions,omitempty"`
}

// Review is a user review with optional admin replies.
type Review struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"userId"`
	Name    string    `json:"name"`
	Rating  float64   `json:"rating"`
	Comment string    `json:"comment"`
	Replies []Comment `json:"replies,omitempty"`
}

func (c *Course) DecodeSections() ([]Section, error) {
	if len(c.Sections) == 0 {
		return nil, nil
	}
	var sections []Section
	if err := json.Unmarshal(c.Sections, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Course) SetSections(sections []Section) error {
	raw, err := json.Marshal(sections)
	if err != nil {
		return err
	}
	c.Sections = raw
	return nil
}

func (c *Course) DecodeReviews() ([]Review, error) {
	if len(c.Reviews) == 0 {
		return nil, nil
	}
	var reviews []Review
	if err := json.Unmarshal(c.Reviews, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Course) SetReviews(reviews []Review) error {
	raw, err := json.Marshal(reviews)
	if err != nil {
		return err
	}
	c.Reviews = raw
	return nil
}

// StripPrivateContent clears section fields that only enrolled users may see.
// Public catalog reads go through this before caching.
func (c *Course) StripPrivateContent() error {
	sections, err := c.DecodeSections()
	if err != nil {
		return err
	}
	for i := range sections {
		sections[i].VideoURL = ""
		sections[i].Links = nil
		sections[i].Questions = nil
	}
	return c.SetSections(sections)
}
