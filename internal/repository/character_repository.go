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

// CharacterRepository handles the per-user character profile and the dungeon
// run log.
type CharacterRepository struct {
	profiles *mongo.Collection
	logs     *mongo.Collection
}

// NewCharacterRepository creates a new instance of CharacterRepository.
func NewCharacterRepository(db *mongo.Database) *CharacterRepository {
	return &CharacterRepository{
		profiles: db.Collection("character_profiles"),
		logs:     db.Collection("dungeon_logs"),
	}
}

// GetProfile returns the user's character profile, or nil when unset.
func (r *CharacterRepository) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.CharacterProfile, error) {
	var profile models.CharacterProfile
	err := r.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch character profile: %v", err)
	}
	return &profile, nil
}

// UpsertProfile saves the user's character profile singleton.
func (r *CharacterRepository) UpsertProfile(ctx context.Context, profile *models.CharacterProfile) error {
	profile.UpdatedAt = time.Now()

	filter := bson.M{"user_id": profile.UserID}
	update := bson.M{"$set": bson.M{
		"name":                profile.Name,
		"traits":              profile.Traits,
		"generated_prompt":    profile.GeneratedPrompt,
		"custom_instructions": profile.CustomInstructions,
		"updated_at":          profile.UpdatedAt,
	}}

	_, err := r.profiles.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to upsert character profile")
		return fmt.Errorf("failed to save character profile: %v", err)
	}
	return nil
}

// CreateLog appends a dungeon log record.
func (r *CharacterRepository) CreateLog(ctx context.Context, log *models.DungeonLog) (*models.DungeonLog, error) {
	log.CreatedAt = time.Now()

	result, err := r.logs.InsertOne(ctx, log)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert dungeon log")
		return nil, fmt.Errorf("failed to create dungeon log: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted dungeon log ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	log.ID = insertedID
	return log, nil
}

// GetLogs fetches a user's dungeon logs, newest first.
func (r *CharacterRepository) GetLogs(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.DungeonLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.logs.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dungeon logs: %v", err)
	}
	defer cursor.Close(ctx)

	var logs []models.DungeonLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode dungeon logs: %v", err)
	}
	return logs, nil
}
