package domain

import "errors"

var (
	// ErrInvalidCredentials covers both "unknown username" and "wrong
	// password" so login responses cannot be used for enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")

	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")

	ErrTooManyAttempts = errors.New("too many login attempts")
)
