package auth

import "errors"

var (
	// ErrAlreadyExists indicates the email already keys a registered user.
	ErrAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates an unknown email or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyAttempts indicates credential checks for the email are throttled.
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrInvalidInput indicates a malformed email, name, or password.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCodeExhausted indicates no unused friend code could be generated.
	ErrCodeExhausted = errors.New("friend code space exhausted")
)
