package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TokenRepository handles database operations for notification tokens.
type TokenRepository struct {
	collection *mongo.Collection
}

// NewTokenRepository creates a new instance of TokenRepository.
func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{
		collection: db.Collection("notification_tokens"),
	}
}

// UpsertToken registers a device token, refreshing last_seen_at when the
// token is already known.
func (r *TokenRepository) UpsertToken(ctx context.Context, token *models.NotificationToken) error {
	now := time.Now()
	filter := bson.M{"user_id": token.UserID, "token": token.Token}
	update := bson.M{
		"$set": bson.M{
			"platform":     token.Platform,
			"last_seen_at": now,
		},
		"$setOnInsert": bson.M{
			"user_id":    token.UserID,
			"token":      token.Token,
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to upsert notification token")
		return fmt.Errorf("failed to register token: %v", err)
	}

	logger.Log.WithField("user_id", token.UserID.Hex()).Info("Notification token registered")
	return nil
}

// GetTokens fetches all device tokens for a user.
func (r *TokenRepository) GetTokens(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationToken, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tokens: %v", err)
	}
	defer cursor.Close(ctx)

	var tokens []models.NotificationToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode tokens: %v", err)
	}
	return tokens, nil
}

// DeleteToken removes one device token for a user.
func (r *TokenRepository) DeleteToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "token": token})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to delete token")
		return fmt.Errorf("failed to delete token: %v", err)
	}
	return nil
}

// SettingsRepository handles the per-user life question settings singleton.
type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("life_question_settings"),
	}
}

// GetSettings returns the user's settings, or nil when none are stored yet.
func (r *SettingsRepository) GetSettings(ctx context.Context, userID primitive.ObjectID) (*models.LifeQuestionSettings, error) {
	var settings models.LifeQuestionSettings
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch settings: %v", err)
	}
	return &settings, nil
}

// UpsertSettings saves the user's settings singleton.
func (r *SettingsRepository) UpsertSettings(ctx context.Context, settings *models.LifeQuestionSettings) error {
	settings.UpdatedAt = time.Now()

	filter := bson.M{"user_id": settings.UserID}
	update := bson.M{"$set": bson.M{
		"timezone":             settings.Timezone,
		"notification_channel": settings.NotificationChannel,
		"updated_at":           settings.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to upsert settings")
		return fmt.Errorf("failed to save settings: %v", err)
	}
	return nil
}
