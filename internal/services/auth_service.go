package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sportmania/sportmania-backend/internal/auth"
	"github.com/sportmania/sportmania-backend/internal/common"
	"github.com/sportmania/sportmania-backend/internal/models"
	"github.com/sportmania/sportmania-backend/pkg/utils"
)

// SessionDuration is how long an issued session token stays valid.
const SessionDuration = 24 * time.Hour

// MinPasswordLength applies to registration only.
const MinPasswordLength = 6

// UserStore is the persistence surface the services need. The Mongo
// implementation lives in internal/store; tests supply an in-memory one.
type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

// AuthService handles registration, login and session-status checks.
type AuthService struct {
	users     UserStore
	jwtSecret []byte
}

func NewAuthService(users UserStore, jwtSecret []byte) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret}
}

// Register creates a user with a hashed password and issues a session
// token. The email unique index backstops the existence check.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please fill in all required fields", common.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%w: email already exists", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, "", fmt.Errorf("%w: email already exists", common.ErrConflict)
		}
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID.Hex(), s.jwtSecret, SessionDuration)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: please enter a valid email and password", common.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: user not found", common.ErrNotFound)
		}
		return nil, "", err
	}

	valid, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !valid {
		return nil, "", fmt.Errorf("%w: invalid email or password", common.ErrUnauthorized)
	}

	token, err := auth.GenerateToken(user.ID.Hex(), s.jwtSecret, SessionDuration)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SessionStatus reports whether a session token is present and valid.
// Verification failure means "not logged in", never an error.
func (s *AuthService) SessionStatus(token string) bool {
	if token == "" {
		return false
	}
	_, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	return err == nil
}
