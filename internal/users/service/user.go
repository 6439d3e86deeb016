package service

import (
	"context"
	"errors"
	"time"

	"github.com/maro14/fauxdoorz/internal/auth"
	userserrors "github.com/maro14/fauxdoorz/internal/users/errors"
	"github.com/maro14/fauxdoorz/internal/users/repository"
	"github.com/maro14/fauxdoorz/internal/users/validator"
	"github.com/maro14/fauxdoorz/pkg/config"
	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	"github.com/maro14/fauxdoorz/pkg/model"
	"github.com/maro14/fauxdoorz/pkg/sanitizer"
)

type UserService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (string, *model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, updates *model.UserUpdate) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	tokens    *auth.TokenManager
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	tokens *auth.TokenManager,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		tokens:    tokens,
		cfg:       cfg,
	}
}

func (s *userService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	req.Email = sanitizer.SanitizeEmail(req.Email)
	req.Name = sanitizer.NormalizeName(req.Name)

	if err := s.validator.ValidateSignup(req); err != nil {
		s.cfg.Log.Warn("Signup validation failed", "error", err)
		return nil, apperrors.Validation("Invalid signup input", map[string]any{"error": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         config.RoleUser,
		Properties:   []string{},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User signed up", "id", user.ID, "email", user.Email)
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (string, *model.User, error) {
	req.Email = sanitizer.SanitizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		return "", nil, apperrors.Validation("Invalid login input", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			// Same response as a wrong password so the endpoint does not
			// reveal which emails exist.
			return "", nil, apperrors.Unauthorized("Invalid email or password")
		}
		return "", nil, apperrors.Internal("Failed to look up user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return "", nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Issue(user, time.Now())
	if err != nil {
		return "", nil, apperrors.Internal("Failed to issue session token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return token, user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, updates *model.UserUpdate) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates.Email = sanitizer.SanitizeEmail(updates.Email)
	updates.Name = sanitizer.NormalizeName(updates.Name)
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("User update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		s.cfg.Log.Error("Failed to update user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update user", err)
	}

	s.cfg.Log.Info("User profile updated", "id", id)
	return &merged, nil
}
