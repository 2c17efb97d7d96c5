package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepository
	sessions *cache.SessionStore
	assets   Assets
}

func NewUserService(userRepo repository.UserRepository, sessions *cache.SessionStore, assets Assets) *UserService {
	return &UserService{
		userRepo: userRepo,
		sessions: sessions,
		assets:   assets,
	}
}

type UpdateInfoInput struct {
	Name  *string
	Email *string
}

type UpdatePasswordInput struct {
	OldPassword string
	NewPassword string
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateInfo changes name and/or email, then refreshes the session cache so
// the change is visible to the very next authenticated request.
func (s *UserService) UpdateInfo(ctx context.Context, userID uuid.UUID, input UpdateInfoInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if !domain.ValidEmail(*input.Email) {
			return nil, domain.ErrInvalidEmail
		}
		existing, err := s.userRepo.GetByEmail(ctx, *input.Email)
		if err == nil && existing != nil {
			return nil, domain.ErrEmailExists
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword verifies the old password before hashing the new one.
// Accounts created via social auth carry no password and are rejected.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, input UpdatePasswordInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, domain.ErrPasswordNotSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hashed)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AvatarUploadURL hands the client a presigned PUT target under avatars/.
func (s *UserService) AvatarUploadURL(ctx context.Context) (string, string, error) {
	return s.assets.PresignUpload(ctx, "avatars")
}

// UpdateAvatar records the uploaded object key after the client finished the
// presigned upload.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, key string) (*domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.AvatarKey = key
	user.AvatarURL = s.assets.PublicURL(key)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	// Role lives in the session snapshot too; refresh it so the change
	// applies without waiting for re-login.
	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and evicts its session entry, which revokes any
// outstanding access tokens.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, userID)
}
