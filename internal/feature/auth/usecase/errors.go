// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned by repositories when no user matches the username.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists is returned when the username is already registered.
	// Repositories return it when the storage uniqueness constraint rejects an insert.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is the single client-facing failure for login.
	// Unknown usernames and wrong passwords both map to it.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
