package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devevents/api/internal/apperror"
	"github.com/devevents/api/internal/auth"
	"github.com/devevents/api/internal/model"
	"github.com/devevents/api/internal/repository"
	"github.com/devevents/api/internal/validation"
)

// incorrectOldPasswordMsg is keyed under old_password in the 422 envelope
// when a password change supplies the wrong current password.
const incorrectOldPasswordMsg = "Incorrect old password"

// UserService handles registration, profile reads and profile mutations.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register validates a registration body, checks email uniqueness and creates
// the user. The uniqueness failure lands in the same field-error envelope as
// the format rules, under the email key.
func (s *UserService) Register(ctx context.Context, raw map[string]any) (*model.User, error) {
	in, fieldErrs := validation.UserCreate(raw)
	if fieldErrs == nil {
		fieldErrs = validation.FieldErrors{}
	}

	// Only probe the store when the email itself passed its format rules.
	if in != nil {
		taken, err := s.users.EmailTaken(ctx, in.Email, 0)
		if err != nil {
			return nil, fmt.Errorf("service/user: checking email: %w", err)
		}
		if taken {
			fieldErrs.Add("email", validation.EmailTakenMessage)
		}
	}

	if !fieldErrs.Empty() {
		return nil, apperror.ValidationFailed(fieldErrs)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, page, perPage int) (model.Page[model.User], error) {
	users, total, err := s.users.ListUsers(ctx, repository.ListOptions{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return model.Page[model.User]{}, fmt.Errorf("service/user: listing users: %w", err)
	}

	return model.NewPage(users, total, page, perPage), nil
}

// Get fetches a single user.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// Update rewrites the target user's profile. Ordering matters: a missing
// target is 404, someone else's profile is 403, and only then is the body
// validated.
func (s *UserService) Update(ctx context.Context, actorID, targetID int64, raw map[string]any) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if actorID != targetID {
		return nil, apperror.Forbidden()
	}

	in, fieldErrs := validation.UserUpdate(raw)
	if fieldErrs == nil {
		fieldErrs = validation.FieldErrors{}
	}

	// The target's own current address is excluded from the uniqueness check
	// so an update that keeps the email untouched always passes.
	if in != nil {
		taken, err := s.users.EmailTaken(ctx, in.Email, targetID)
		if err != nil {
			return nil, fmt.Errorf("service/user: checking email: %w", err)
		}
		if taken {
			fieldErrs.Add("email", validation.EmailTakenMessage)
		}
	}

	if !fieldErrs.Empty() {
		return nil, apperror.ValidationFailed(fieldErrs)
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.Bio = in.Bio
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/user: updating user %d: %w", targetID, err)
	}

	return user, nil
}

// UpdatePassword changes the target user's password after verifying the old
// one. Same ordering as Update: 404, then 403, then validation.
func (s *UserService) UpdatePassword(ctx context.Context, actorID, targetID int64, raw map[string]any) error {
	user, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return err
	}

	if actorID != targetID {
		return apperror.Forbidden()
	}

	in, fieldErrs := validation.PasswordUpdate(raw)
	if fieldErrs != nil {
		return apperror.ValidationFailed(fieldErrs)
	}

	if err := s.passwords.Verify(user.Password, in.OldPassword); err != nil {
		return apperror.ValidationFailed(map[string]string{
			"old_password": incorrectOldPasswordMsg,
		})
	}

	hash, err := s.passwords.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("service/user: hashing new password: %w", err)
	}

	if err := s.users.UpdateUserPassword(ctx, targetID, hash); err != nil {
		return fmt.Errorf("service/user: updating password for user %d: %w", targetID, err)
	}

	s.logger.Info("user changed password", slog.Int64("userID", targetID))

	return nil
}
