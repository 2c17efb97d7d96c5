package domain

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the address matches the accepted email format.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"column:password_hash"`
	AvatarKey    string         `json:"-"`
	AvatarURL    string         `json:"avatarUrl"`
	Role         string         `json:"role" gorm:"not null;default:user"`
	IsVerified   bool           `json:"isVerified" gorm:"not null;default:false"`
	Courses      datatypes.JSON `json:"courses" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// PendingUser is an identity that has passed registration but not activation.
// It exists only inside the signed activation token; nothing is persisted
// until the activation code is confirmed.
type PendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type courseRef struct {
	CourseID uuid.UUID `json:"courseId"`
}

// EnrolledCourseIDs decodes the user's enrolled-course references.
func (u *User) EnrolledCourseIDs() ([]uuid.UUID, error) {
	if len(u.Courses) == 0 {
		return nil, nil
	}
	var refs []courseRef
	if err := json.Unmarshal(u.Courses, &refs); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.CourseID)
	}
	return ids, nil
}

// Enrolled reports whether the user already holds the given course.
func (u *User) Enrolled(courseID uuid.UUID) bool {
	ids, err := u.EnrolledCourseIDs()
	if err != nil {
		return false
	}
	for _, id := range ids {
		if id == courseID {
			return true
		}
	}
	return false
}

// Enroll appends a course reference to the user's enrolled list.
func (u *User) Enroll(courseID uuid.UUID) error {
	ids, err := u.EnrolledCourseIDs()
	if err != nil {
		return err
	}
	refs := make([]courseRef, 0, len(ids)+1)
	for _, id := range ids {
		refs = append(refs, courseRef{CourseID: id})
	}
	refs = append(refs, courseRef{CourseID: courseID})
	raw, err := json.Marshal(refs)
	if err != nil {
		return err
	}
	u.Courses = raw
	return nil
}
