package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/mail"
	"github.com/priya/course-platform/internal/repository"
	"github.com/priya/course-platform/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	userRepo repository.UserRepository
	sessions *cache.SessionStore
	issuer   *token.Issuer
	mailer   Mailer
}

func NewAuthService(userRepo repository.UserRepository, sessions *cache.SessionStore, issuer *token.Issuer, mailer Mailer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		issuer:   issuer,
		mailer:   mailer,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type SocialAuthInput struct {
	Name      string
	Email     string
	AvatarURL string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Register validates the pending identity and hands back an activation
// token; the 4-digit code travels by email only. Nothing touches the user
// store until Activate succeeds.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, error) {
	if !domain.ValidEmail(input.Email) {
		return "", domain.ErrInvalidEmail
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return "", domain.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	pending := domain.PendingUser{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}

	activationToken, code, err := s.issuer.IssueActivationToken(pending)
	if err != nil {
		return "", err
	}

	data := mail.ActivationData{Name: input.Name, ActivationCode: code}
	if err := s.mailer.Send(input.Email, "Activate your account", "activation", data); err != nil {
		return "", err
	}

	return activationToken, nil
}

// Activate verifies the token, checks the out-of-band code and persists the
// identity. Replays lose: if the email was registered concurrently, the
// second activation fails on the uniqueness check.
func (s *AuthService) Activate(ctx context.Context, activationToken, code string) (*domain.User, error) {
	pending, expectedCode, err := s.issuer.VerifyActivationToken(activationToken)
	if err != nil {
		return nil, err
	}

	if code != expectedCode {
		return nil, domain.ErrInvalidActivationCode
	}

	existing, err := s.userRepo.GetByEmail(ctx, pending.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailExists
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         domain.RoleUser,
		IsVerified:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates by email and password. Both unknown email and wrong
// password produce the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// Social accounts have no password and cannot log in this way.
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// SocialAuth logs in a user from a trusted identity provider, creating the
// account on first sight.
func (s *AuthService) SocialAuth(ctx context.Context, input SocialAuthInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &domain.User{
			ID:         uuid.New(),
			Name:       input.Name,
			Email:      input.Email,
			AvatarURL:  input.AvatarURL,
			Role:       domain.RoleUser,
			IsVerified: true,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.openSession(ctx, user)
}

// Refresh exchanges a valid, cache-backed refresh token for a new pair.
// Every failure collapses into ErrTokenInvalid: an expired token and an
// evicted session must be indistinguishable to the caller.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userIDStr, err := s.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	return s.openSession(ctx, user)
}

// Authenticate resolves an access token into the cached identity. The gate
// middleware and the websocket handshake both go through here.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	userIDStr, err := s.issuer.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return user, nil
}

// Logout drops the session cache entry. Safe to call twice.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.Delete(ctx, userID)
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, user); err != nil {
		log.Printf("ERROR [auth.openSession] failed to write session cache for %s: %v", user.ID, err)
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
