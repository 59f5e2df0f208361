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

// QuestionRepository handles database operations for life questions.
type QuestionRepository struct {
	collection *mongo.Collection
}

// NewQuestionRepository creates a new instance of QuestionRepository.
func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{
		collection: db.Collection("questions"),
	}
}

// CreateQuestion inserts a new question.
func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	question.CreatedAt = time.Now()
	question.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert question")
		return nil, fmt.Errorf("failed to create question: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted question ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	question.ID = insertedID

	logger.Log.WithField("question_id", question.ID.Hex()).Info("Question created")
	return question, nil
}

// GetQuestionByID fetches a question by its ID.
func (r *QuestionRepository) GetQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var question models.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		logger.Log.WithError(err).WithField("question_id", id.Hex()).Warn("Failed to find question")
		return nil, fmt.Errorf("failed to find question: %v", err)
	}
	return &question, nil
}

// GetQuestions fetches a user's questions, optionally filtered by status.
func (r *QuestionRepository) GetQuestions(ctx context.Context, userID primitive.ObjectID, status string) ([]models.Question, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %v", err)
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %v", err)
	}
	return questions, nil
}

// UpdateQuestion replaces the mutable fields of a question.
func (r *QuestionRepository) UpdateQuestion(ctx context.Context, id primitive.ObjectID, question *models.Question) (*models.Question, error) {
	question.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": question})
	if err != nil {
		logger.Log.WithError(err).WithField("question_id", id.Hex()).Error("Failed to update question")
		return nil, fmt.Errorf("failed to update question: %v", err)
	}
	return question, nil
}

// SetQuestionStatus updates just the status field of a question.
func (r *QuestionRepository) SetQuestionStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.Log.WithError(err).WithField("question_id", id.Hex()).Error("Failed to set question status")
		return fmt.Errorf("failed to set question status: %v", err)
	}
	return nil
}

// DeleteQuestion deletes a question by its ID.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("question_id", id.Hex()).Error("Failed to delete question")
		return fmt.Errorf("failed to delete question: %v", err)
	}
	return nil
}
