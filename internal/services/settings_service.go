package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var allowedChannels = map[string]struct{}{
	models.DeliveryChannelFCM:   {},
	models.DeliveryChannelEmail: {},
	models.DeliveryChannelInApp: {},
}

// SettingsService manages the per-user life question settings and the
// notification tokens the dispatcher fans out to.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	tokenRepo    *repository.TokenRepository
}

// NewSettingsService creates a new instance of SettingsService.
func NewSettingsService(settingsRepo *repository.SettingsRepository, tokenRepo *repository.TokenRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, tokenRepo: tokenRepo}
}

// GetSettings returns the user's settings, falling back to defaults when no
// settings document exists yet.
func (s *SettingsService) GetSettings(ctx context.Context, userID primitive.ObjectID) (*models.LifeQuestionSettings, error) {
	settings, err := s.settingsRepo.GetSettings(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to get settings")
		return nil, fmt.Errorf("failed to get settings: %v", err)
	}
	if settings == nil {
		settings = &models.LifeQuestionSettings{
			UserID:              userID,
			Timezone:            "UTC",
			NotificationChannel: models.DeliveryChannelFCM,
		}
	}
	return settings, nil
}

// UpdateSettings validates and upserts the user's settings.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings *models.LifeQuestionSettings) (*models.LifeQuestionSettings, error) {
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone %q", settings.Timezone)
		}
	} else {
		settings.Timezone = "UTC"
	}

	if settings.NotificationChannel != "" {
		if _, ok := allowedChannels[settings.NotificationChannel]; !ok {
			return nil, fmt.Errorf("invalid notification channel %q", settings.NotificationChannel)
		}
	} else {
		settings.NotificationChannel = models.DeliveryChannelFCM
	}

	if err := s.settingsRepo.UpsertSettings(ctx, settings); err != nil {
		logger.Log.WithError(err).Error("Failed to update settings")
		return nil, fmt.Errorf("failed to update settings: %v", err)
	}

	logger.Log.WithField("user_id", settings.UserID.Hex()).Info("Settings updated")
	return settings, nil
}

// RegisterToken upserts a notification token for the user's device.
func (s *SettingsService) RegisterToken(ctx context.Context, token *models.NotificationToken) error {
	if token.Token == "" {
		return fmt.Errorf("token is required")
	}
	if token.Platform == "" {
		token.Platform = "web"
	}

	if err := s.tokenRepo.UpsertToken(ctx, token); err != nil {
		logger.Log.WithError(err).Error("Failed to register token")
		return fmt.Errorf("failed to register token: %v", err)
	}

	logger.Log.WithField("user_id", token.UserID.Hex()).Info("Notification token registered")
	return nil
}

// ListTokens returns the user's registered notification tokens.
func (s *SettingsService) ListTokens(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationToken, error) {
	tokens, err := s.tokenRepo.GetTokens(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list tokens")
		return nil, fmt.Errorf("failed to list tokens: %v", err)
	}
	return tokens, nil
}

// RemoveToken deletes one of the user's notification tokens.
func (s *SettingsService) RemoveToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if err := s.tokenRepo.DeleteToken(ctx, userID, token); err != nil {
		logger.Log.WithError(err).Error("Failed to remove token")
		return fmt.Errorf("failed to remove token: %v", err)
	}
	return nil
}
