package services

import "errors"

var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrEmailNotVerified         = errors.New("email not verified")
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	ErrAlreadyVerified          = errors.New("email already verified")
	ErrUserNotFound             = errors.New("user not found")
	ErrPasswordTooLong          = errors.New("password must be at most 72 bytes long")
)
