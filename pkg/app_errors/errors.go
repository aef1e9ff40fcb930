package apperrors

import "errors"

var (
	ErrUserNotFound        = errors.New("no such user")
	ErrEventNotFound       = errors.New("no such event")
	ErrSignupNotFound      = errors.New("no such event sign-up")
	ErrMissingFields       = errors.New("missing fields")
	ErrAlreadySignedUp     = errors.New("already signed up")
	ErrEventFull           = errors.New("event is full")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email or username already taken")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
)
