// Package service contains the business logic between the HTTP handlers and
// the repositories.
//
//	handler (HTTP) → service (rules) → repository (DB)
//	               ↘ auth (JWT, bcrypt)
//	               ↘ geocode (venue coordinates)
//
// Services own the validation and authorization ordering: a request against
// a missing resource is 404 before anything else, a request by the wrong
// user is 403 before the body is even validated. Handlers only decode JSON
// and translate returned errors to HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devevents/api/internal/apperror"
	"github.com/devevents/api/internal/auth"
	"github.com/devevents/api/internal/repository"
	"github.com/devevents/api/internal/validation"
)

// AuthService handles login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Login verifies credentials and returns a signed access token.
//
// An unknown email and a wrong password produce the same InvalidCredentials
// error: the response must not reveal which half was wrong.
func (s *AuthService) Login(ctx context.Context, raw map[string]any) (string, error) {
	in, fieldErrs := validation.Login(raw)
	if fieldErrs != nil {
		return "", apperror.ValidationFailed(fieldErrs)
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return "", apperror.InvalidCredentials()
	}

	if err := s.passwords.Verify(user.Password, in.Password); err != nil {
		return "", apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return token, nil
}
