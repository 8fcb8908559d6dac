package service

import (
	"context"
	"errors"
	"fmt"

	"pdf-summarizer/internal/domain"
	apperrors "pdf-summarizer/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so a failed login
// costs the same whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type authService struct {
	users      domain.UserRepository
	logger     domain.Logger
	bcryptCost int
}

// NewAuthService creates the registration and login use cases. A zero cost
// means bcrypt.DefaultCost.
func NewAuthService(users domain.UserRepository, logger domain.Logger, bcryptCost int) *authService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:      users,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register validates the form, hashes the password and creates the user.
func (s *authService) Register(ctx context.Context, input domain.RegistrationInput) (*domain.User, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return nil, apperrors.NewValidationError(vErr.Message, vErr.Field)
		}
		return nil, apperrors.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		s.logger.Info("Registration rejected, email already registered")
		return nil, apperrors.NewConflictError("user already exists", err)
	case errors.Is(err, domain.ErrDuplicateUsername):
		s.logger.Info("Registration rejected, username taken", "username", input.Username)
		return nil, apperrors.NewConflictError("username already taken", err)
	case err != nil:
		return nil, apperrors.NewStorageError("failed to create user", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Login returns the user whose bcrypt hash matches password. Unknown emails
// and wrong passwords produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperrors.NewStorageError("failed to look up user", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("Password mismatch", "user_id", user.ID)
		return nil, invalidCredentials()
	}

	return user, nil
}

// GetUser loads the account behind a session.
func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to load user %d", id), err)
	}
	return user, nil
}

func invalidCredentials() *apperrors.AppError {
	appErr := apperrors.NewUnauthorizedError("invalid credentials")
	appErr.Cause = domain.ErrInvalidCredentials
	return appErr
}
