package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/maro14/fauxdoorz/internal/auth"
	userserrors "github.com/maro14/fauxdoorz/internal/users/errors"
	"github.com/maro14/fauxdoorz/internal/users/validator"
	"github.com/maro14/fauxdoorz/pkg/config"
	mongotx "github.com/maro14/fauxdoorz/pkg/db/mongo"
	apperrors "github.com/maro14/fauxdoorz/pkg/errors"
	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

const testUserID = "507f1f77bcf86cd799439011"

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	updated         *model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = testUserID
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) (*mongo.UpdateResult, error) {
	m.updated = user
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockUserRepository) AddProperty(ctx context.Context, userID, propertyID string) error {
	return nil
}

func (m *mockUserRepository) RemoveProperty(ctx context.Context, userID, propertyID string) error {
	return nil
}

func (m *mockUserRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

func newTestService(t *testing.T, repo *mockUserRepository) (UserService, *auth.TokenManager) {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
		BcryptCost:  4,
	}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewUserService(repo, validator.NewUserValidator(log), tokens, cfg), tokens
}

func TestSignup(t *testing.T) {
	repo := &mockUserRepository{}
	svc, _ := newTestService(t, repo)

	user, err := svc.Signup(context.Background(), &model.SignupRequest{
		Name:     "  Gary  Guest ",
		Email:    " Gary@Example.COM ",
		Password: "super-secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "gary@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.Name != "Gary Guest" {
		t.Errorf("expected normalized name, got %q", user.Name)
	}
	if user.Role != config.RoleUser {
		t.Errorf("expected role %s, got %s", config.RoleUser, user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "super-secret" {
		t.Error("password must be stored hashed")
	}
	if !auth.CheckPassword(user.PasswordHash, "super-secret") {
		t.Error("stored hash does not match the password")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	}
	svc, _ := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Name:     "Gary Guest",
		Email:    "gary@example.com",
		Password: "super-secret",
	})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestSignup_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t, &mockUserRepository{})

	tests := []struct {
		name string
		req  *model.SignupRequest
	}{
		{"short password", &model.SignupRequest{Name: "Gary Guest", Email: "gary@example.com", Password: "abc"}},
		{"bad email", &model.SignupRequest{Name: "Gary Guest", Email: "not-an-email", Password: "super-secret"}},
		{"missing name", &model.SignupRequest{Email: "gary@example.com", Password: "super-secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.req)
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("super-secret", 4)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	stored := &model.User{
		ID:           testUserID,
		Email:        "gary@example.com",
		PasswordHash: hash,
		Name:         "Gary Guest",
		Role:         config.RoleUser,
	}
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, userserrors.ErrNotFound
		},
	}
	svc, tokens := newTestService(t, repo)

	token, user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "Gary@Example.com",
		Password: "super-secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != testUserID {
		t.Errorf("expected user %s, got %s", testUserID, user.ID)
	}

	sess, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if sess.UserID != testUserID || sess.Role != config.RoleUser {
		t.Errorf("unexpected session claims: %+v", sess)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	hash, err := auth.HashPassword("super-secret", 4)
	if err != nil {
		t.Fatalf("failed to hash fixture password: %v", err)
	}
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email == "gary@example.com" {
				return &model.User{ID: testUserID, Email: email, PasswordHash: hash}, nil
			}
			return nil, userserrors.ErrNotFound
		},
	}
	svc, _ := newTestService(t, repo)

	tests := []struct {
		name string
		req  *model.LoginRequest
	}{
		{"wrong password", &model.LoginRequest{Email: "gary@example.com", Password: "wrong"}},
		{"unknown email", &model.LoginRequest{Email: "nobody@example.com", Password: "super-secret"}},
	}

	// Both failures must produce the same response so the endpoint does
	// not reveal which emails exist.
	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.req)
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			messages = append(messages, appErr.Message)
		})
	}
	if len(messages) == 2 && messages[0] != messages[1] {
		t.Errorf("failure messages differ: %q vs %q", messages[0], messages[1])
	}
}

func TestUpdateProfile(t *testing.T) {
	existing := &model.User{
		ID:    testUserID,
		Email: "gary@example.com",
		Name:  "Gary Guest",
		Role:  config.RoleUser,
	}
	repo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return existing, nil
		},
	}
	svc, _ := newTestService(t, repo)

	updated, err := svc.UpdateProfile(context.Background(), testUserID, &model.UserUpdate{
		Name: "Gary G. Guest",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Gary G. Guest" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Email != existing.Email {
		t.Errorf("untouched email must survive, got %q", updated.Email)
	}
}
