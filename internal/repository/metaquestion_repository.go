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

// MetaQuestionRepository handles database operations for meta-questions.
type MetaQuestionRepository struct {
	collection *mongo.Collection
}

// NewMetaQuestionRepository creates a new instance of MetaQuestionRepository.
func NewMetaQuestionRepository(db *mongo.Database) *MetaQuestionRepository {
	return &MetaQuestionRepository{
		collection: db.Collection("meta_questions"),
	}
}

// CreateMetaQuestion inserts a new meta-question.
func (r *MetaQuestionRepository) CreateMetaQuestion(ctx context.Context, meta *models.MetaQuestion) (*models.MetaQuestion, error) {
	meta.CreatedAt = time.Now()
	meta.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, meta)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert meta question")
		return nil, fmt.Errorf("failed to create meta question: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted meta question ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	meta.ID = insertedID

	logger.Log.WithField("meta_question_id", meta.ID.Hex()).Info("Meta question created")
	return meta, nil
}

// GetMetaQuestionByID fetches a meta-question by its ID.
func (r *MetaQuestionRepository) GetMetaQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.MetaQuestion, error) {
	var meta models.MetaQuestion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&meta)
	if err != nil {
		logger.Log.WithError(err).WithField("meta_question_id", id.Hex()).Warn("Failed to find meta question")
		return nil, fmt.Errorf("failed to find meta question: %v", err)
	}
	return &meta, nil
}

// GetMetaQuestions fetches a user's meta-questions, optionally by status.
func (r *MetaQuestionRepository) GetMetaQuestions(ctx context.Context, userID primitive.ObjectID, status string) ([]models.MetaQuestion, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meta questions: %v", err)
	}
	defer cursor.Close(ctx)

	var metas []models.MetaQuestion
	if err := cursor.All(ctx, &metas); err != nil {
		return nil, fmt.Errorf("failed to decode meta questions: %v", err)
	}
	return metas, nil
}

// UpdateMetaQuestion replaces the mutable fields of a meta-question.
func (r *MetaQuestionRepository) UpdateMetaQuestion(ctx context.Context, id primitive.ObjectID, meta *models.MetaQuestion) (*models.MetaQuestion, error) {
	meta.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": meta})
	if err != nil {
		logger.Log.WithError(err).WithField("meta_question_id", id.Hex()).Error("Failed to update meta question")
		return nil, fmt.Errorf("failed to update meta question: %v", err)
	}
	return meta, nil
}

// DeleteMetaQuestion deletes a meta-question by its ID.
func (r *MetaQuestionRepository) DeleteMetaQuestion(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("meta_question_id", id.Hex()).Error("Failed to delete meta question")
		return fmt.Errorf("failed to delete meta question: %v", err)
	}
	return nil
}
