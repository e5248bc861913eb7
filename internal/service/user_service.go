package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// CreateUserInput is a staff request for a new account.
type CreateUserInput struct {
	// ID is optional; a UUID is generated when empty.
	ID    string
	Email string
	Name  string
	Phone string
	City  string
	Role  domain.Role
}

// UpdateUserInput replaces the profile fields of a user. Nil fields are kept.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Phone *string
	City  *string
}

// UserService manages platform accounts.
type UserService struct {
	store repository.Store
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// Create stores an active user together with the all-opted-in default
// preference, in one transaction. The email is checked here as well as at
// the HTTP edge because the seed command calls Create directly.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, apperrors.ErrInvalidRequestf("invalid email %q", in.Email)
	}
	role := in.Role
	switch role {
	case "":
		role = domain.RoleCustomer
	case domain.RoleCustomer, domain.RoleStaff:
	default:
		return domain.User{}, apperrors.ErrInvalidRequestf("unknown role %q", in.Role)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	u := domain.User{
		ID:     id,
		Email:  email,
		Name:   strings.TrimSpace(in.Name),
		Phone:  strings.TrimSpace(in.Phone),
		City:   strings.TrimSpace(in.City),
		Active: true,
		Role:   role,
	}
	var created domain.User
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		if created, err = tx.Users().Create(ctx, u); err != nil {
			return err
		}
		_, err = tx.Preferences().Upsert(ctx, domain.DefaultPreference(created.ID))
		return err
	})
	if errors.Is(err, repository.ErrConflict) {
		return domain.User{}, apperrors.Conflict(apperrors.CodeUserExists, "user already exists").
			WithParams(map[string]interface{}{"email": email})
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	logger.Info("user created", zap.String("user_id", created.ID), zap.String("role", string(created.Role)))
	return created, nil
}

// Get returns user id.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return domain.User{}, userErr(id, err)
	}
	return u, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	out, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// Update edits the profile of user id.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (domain.User, error) {
	u, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return domain.User{}, userErr(id, err)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.User{}, apperrors.ErrInvalidRequestf("invalid email %q", *in.Email)
		}
		u.Email = email
	}
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.City != nil {
		u.City = strings.TrimSpace(*in.City)
	}

	err = s.store.Users().Update(ctx, u)
	if errors.Is(err, repository.ErrConflict) {
		return domain.User{}, apperrors.Conflict(apperrors.CodeUserExists, "email already in use")
	}
	if err != nil {
		return domain.User{}, userErr(id, err)
	}
	return u, nil
}

// ToggleActive flips the active flag of user id and returns the new state.
func (s *UserService) ToggleActive(ctx context.Context, id string) (domain.User, error) {
	u, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return domain.User{}, userErr(id, err)
	}
	u.Active = !u.Active
	if err := s.store.Users().SetActive(ctx, id, u.Active); err != nil {
		return domain.User{}, userErr(id, err)
	}
	logger.Info("user active flag changed", zap.String("user_id", id), zap.Bool("active", u.Active))
	return u, nil
}

// Delete removes user id; the preference goes with it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return userErr(id, err)
	}
	logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func userErr(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrUserNotFoundf(id)
	}
	return fmt.Errorf("user %s: %w", id, err)
}
