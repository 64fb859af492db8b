// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by username or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameAlreadyExists is returned when attempting to create a user with a username that already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when the username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWeakPassword is returned when a password does not meet the minimum requirements.
	ErrWeakPassword = errors.New("password too weak")

	// ErrTokenNotRevocable is returned when a token carries no ID and so cannot be blocklisted.
	ErrTokenNotRevocable = errors.New("token has no id")
)
