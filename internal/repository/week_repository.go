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

// WeekRepository handles database operations for weekly dungeon schedules.
type WeekRepository struct {
	weeks *mongo.Collection
}

// NewWeekRepository creates a new instance of WeekRepository.
func NewWeekRepository(db *mongo.Database) *WeekRepository {
	return &WeekRepository{weeks: db.Collection("weeks")}
}

// GetWeek returns the user's week document for the given key, or nil when
// none has been saved yet.
func (r *WeekRepository) GetWeek(ctx context.Context, userID primitive.ObjectID, weekKey string) (*models.Week, error) {
	var week models.Week
	err := r.weeks.FindOne(ctx, bson.M{"user_id": userID, "week_key": weekKey}).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch week: %v", err)
	}
	return &week, nil
}

// UpsertWeek saves the week document, creating it on first write.
func (r *WeekRepository) UpsertWeek(ctx context.Context, week *models.Week) error {
	week.UpdatedAt = time.Now()

	filter := bson.M{"user_id": week.UserID, "week_key": week.WeekKey}
	update := bson.M{
		"$set": bson.M{
			"days":       week.Days,
			"updated_at": week.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"user_id":    week.UserID,
			"week_key":   week.WeekKey,
			"created_at": week.UpdatedAt,
		},
	}

	_, err := r.weeks.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logger.Log.WithError(err).WithField("week_key", week.WeekKey).Error("Failed to upsert week")
		return fmt.Errorf("failed to save week: %v", err)
	}
	return nil
}
