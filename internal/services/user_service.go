package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService encapsulates account management logic.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// RegisterUser hashes the password and stores a new user account.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		logger.Log.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("username, email and password are required")
	}

	if existing, err := s.repo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		logger.Log.WithField("email", email).Warn("Registration attempt with taken email")
		return nil, fmt.Errorf("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
		Role:           "user",
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create user")
		return nil, fmt.Errorf("failed to create user: %v", err)
	}

	logger.Log.WithField("user_id", created.ID.Hex()).Info("User registered")
	return created, nil
}

// AuthenticateUser verifies the credentials and returns the matching user.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.WithField("email", email).Warn("Login attempt for unknown email")
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logger.Log.WithField("user_id", user.ID.Hex()).Warn("Password mismatch during login")
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := s.repo.UpdateLastActive(ctx, user.ID); err != nil {
		logger.Log.WithError(err).Warn("Failed to update last active timestamp")
	}

	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("user_id", id).WithError(err).Error("Failed to get user")
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// UpdateUser updates the mutable profile fields of a user.
func (s *UserService) UpdateUser(ctx context.Context, id string, username string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	if username != "" {
		user.Username = username
	}

	updated, err := s.repo.UpdateUser(ctx, objID, user)
	if err != nil {
		logger.Log.WithField("user_id", id).WithError(err).Error("Failed to update user")
		return nil, fmt.Errorf("failed to update user: %v", err)
	}
	return updated, nil
}
