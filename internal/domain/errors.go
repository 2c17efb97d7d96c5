package domain

import "errors"

// Authentication errors
var (
	ErrNotAuthenticated = errors.New("please login to access this resource")
	ErrTokenInvalid     = errors.New("token is not valid")
	ErrTokenExpired     = errors.New("token has expired")
	ErrSessionNotFound  = errors.New("user not found")
	ErrForbidden        = errors.New("role is not allowed to access this resource")
)

// Account errors
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidActivationCode = errors.New("invalid activation code")
	ErrInvalidEmail          = errors.New("please enter a valid email")
	ErrEmailExists           = errors.New("email already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrPasswordNotSet        = errors.New("password is not set for this account")
)

// Catalog and order errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrNotEnrolled          = errors.New("course not found in your list")
	ErrAlreadyPurchased     = errors.New("course already purchased")
	ErrSectionNotFound      = errors.New("section not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrLayoutExists         = errors.New("layout type already exists")
	ErrLayoutNotFound       = errors.New("layout not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
