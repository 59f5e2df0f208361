package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HabitRepository handles database operations for habit journal entries.
type HabitRepository struct {
	collection *mongo.Collection
}

// NewHabitRepository creates a new instance of HabitRepository.
func NewHabitRepository(db *mongo.Database) *HabitRepository {
	return &HabitRepository{
		collection: db.Collection("habit_entries"),
	}
}

// CreateEntry inserts a new habit entry.
func (r *HabitRepository) CreateEntry(ctx context.Context, entry *models.HabitEntry) (*models.HabitEntry, error) {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert habit entry")
		return nil, fmt.Errorf("failed to create habit entry: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted habit entry ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	entry.ID = insertedID

	logger.Log.WithField("entry_id", entry.ID.Hex()).Info("Habit entry created")
	return entry, nil
}

// GetEntryByID fetches a habit entry by its ID.
func (r *HabitRepository) GetEntryByID(ctx context.Context, id primitive.ObjectID) (*models.HabitEntry, error) {
	var entry models.HabitEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		logger.Log.WithError(err).WithField("entry_id", id.Hex()).Warn("Failed to find habit entry")
		return nil, fmt.Errorf("failed to find habit entry: %v", err)
	}
	return &entry, nil
}

// GetEntries fetches a user's habit entries, newest first.
func (r *HabitRepository) GetEntries(ctx context.Context, userID primitive.ObjectID) ([]models.HabitEntry, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "time", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit entries: %v", err)
	}
	defer cursor.Close(ctx)

	var entries []models.HabitEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode habit entries: %v", err)
	}
	return entries, nil
}

// DeleteEntry deletes a habit entry by its ID.
func (r *HabitRepository) DeleteEntry(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("entry_id", id.Hex()).Error("Failed to delete habit entry")
		return fmt.Errorf("failed to delete habit entry: %v", err)
	}
	return nil
}
