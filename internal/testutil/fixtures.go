package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
	role     string
	courses  []uuid.UUID
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.role = role
	return b
}

// WithCourse enrolls the user in the given course.
func (b *UserBuilder) WithCourse(courseID uuid.UUID) *UserBuilder {
	b.courses = append(b.courses, courseID)
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		IsVerified:   true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	for _, courseID := range b.courses {
		if err := user.Enroll(courseID); err != nil {
			t.Fatalf("failed to enroll user: %v", err)
		}
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API login response
type LoginResponse struct {
	Success     bool         `json:"success"`
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// NewClient returns an HTTP client with a cookie jar, so auth cookies set by
// login and refresh persist across requests.
func NewClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// BuildAndLogin creates the user in the database, logs in through the API and
// returns the user plus a client holding the auth cookies.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Client) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	client := NewClient(t)

	body, _ := json.Marshal(map[string]string{
		"email":    b.email,
		"password": password,
	})
	resp, err := client.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned status %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if loginResp.User != nil {
		user = loginResp.User
	}

	return user, client
}

// CourseBuilder creates test courses with a builder pattern
type CourseBuilder struct {
	name     string
	price    float64
	sections []domain.Section
}

func NewCourseBuilder() *CourseBuilder {
	return &CourseBuilder{
		name:  fmt.Sprintf("testcourse_%s", uuid.New().String()[:8]),
		price: 49.99,
		sections: []domain.Section{
			{
				ID:       uuid.New(),
				Title:    "Introduction",
				VideoURL: "https://videos.test/intro.mp4",
			},
		},
	}
}

func (b *CourseBuilder) WithName(name string) *CourseBuilder {
	b.name = name
	return b
}

func (b *CourseBuilder) WithPrice(price float64) *CourseBuilder {
	b.price = price
	return b
}

func (b *CourseBuilder) WithSections(sections ...domain.Section) *CourseBuilder {
	b.sections = sections
	return b
}

// Build creates the course in the database
func (b *CourseBuilder) Build(t *testing.T, db *gorm.DB) *domain.Course {
	t.Helper()

	course := &domain.Course{
		ID:          uuid.New(),
		Name:        b.name,
		Description: "A course used in tests",
		Price:       b.price,
		Level:       "Beginner",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := course.SetSections(b.sections); err != nil {
		t.Fatalf("failed to set sections: %v", err)
	}

	if err := db.Create(course).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}

	return course
}
