package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"auth_backend/internal/feature/auth/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrUserAlreadyExists when the
	// storage uniqueness constraint rejects the username.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// PasswordHasher turns a plaintext password into the stored digest.
type PasswordHasher interface {
	Hash(password string) string
}

// authUsecase implements registration and authentication.
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	log    logrus.FieldLogger
}

// NewAuthUsecase creates an authUsecase. All dependencies are injected by the caller.
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, log logrus.FieldLogger) *authUsecase {
	return &authUsecase{
		users:  users,
		hasher: hasher,
		log:    log,
	}
}

// Register hashes the password and stores a new user.
// There is no existence pre-check: concurrent registrations race at the
// unique index and the losers get ErrUserAlreadyExists from the repository.
func (u *authUsecase) Register(ctx context.Context, username, password string) (*entity.User, error) {
	user := &entity.User{
		Username:     username,
		PasswordHash: u.hasher.Hash(password),
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	u.log.WithField("username", username).Debug("user registered")
	return user, nil
}

// Authenticate reports whether username exists and password matches its digest.
// Unknown usernames and wrong passwords both return (false, nil); only the log
// records which one it was. A non-nil error means storage failed.
func (u *authUsecase) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	// The digest is computed on both paths so an unknown username costs the same.
	digest := u.hasher.Hash(password)
	if user == nil {
		u.log.WithFields(logrus.Fields{"username": username, "reason": "unknown_user"}).Debug("authentication failed")
		return false, nil
	}

	if subtle.ConstantTimeCompare([]byte(digest), []byte(user.PasswordHash)) != 1 {
		u.log.WithFields(logrus.Fields{"username": username, "reason": "password_mismatch"}).Debug("authentication failed")
		return false, nil
	}
	return true, nil
}

// Login authenticates and folds a failed check into ErrInvalidCredentials,
// the single failure that is shown to clients.
func (u *authUsecase) Login(ctx context.Context, username, password string) error {
	ok, err := u.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}
