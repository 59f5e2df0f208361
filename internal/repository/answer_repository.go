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

// AnswerRepository handles database operations for answers.
type AnswerRepository struct {
	collection *mongo.Collection
}

// NewAnswerRepository creates a new instance of AnswerRepository.
func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{
		collection: db.Collection("answers"),
	}
}

// CreateAnswer inserts a new answer.
func (r *AnswerRepository) CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error) {
	answer.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, answer)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert answer")
		return nil, fmt.Errorf("failed to create answer: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted answer ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	answer.ID = insertedID

	logger.Log.WithField("answer_id", answer.ID.Hex()).Info("Answer created")
	return answer, nil
}

// GetAnswers fetches a user's answers, newest first.
func (r *AnswerRepository) GetAnswers(ctx context.Context, userID primitive.ObjectID) ([]models.Answer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "answered_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch answers: %v", err)
	}
	defer cursor.Close(ctx)

	var answers []models.Answer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %v", err)
	}
	return answers, nil
}

// GetAnswerByID fetches an answer by its ID.
func (r *AnswerRepository) GetAnswerByID(ctx context.Context, id primitive.ObjectID) (*models.Answer, error) {
	var answer models.Answer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&answer)
	if err != nil {
		logger.Log.WithError(err).WithField("answer_id", id.Hex()).Warn("Failed to find answer")
		return nil, fmt.Errorf("failed to find answer: %v", err)
	}
	return &answer, nil
}

// ContextRepository handles database operations for question contexts.
type ContextRepository struct {
	collection *mongo.Collection
}

// NewContextRepository creates a new instance of ContextRepository.
func NewContextRepository(db *mongo.Database) *ContextRepository {
	return &ContextRepository{
		collection: db.Collection("question_contexts"),
	}
}

// CreateContext inserts a new question context.
func (r *ContextRepository) CreateContext(ctx context.Context, qc *models.QuestionContext) error {
	qc.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, qc); err != nil {
		logger.Log.WithError(err).Error("Failed to insert question context")
		return fmt.Errorf("failed to create question context: %v", err)
	}

	logger.Log.WithField("answer_id", qc.AnswerID.Hex()).Info("Question context created")
	return nil
}

// HasContextForAnswer reports whether a context already exists for the
// answer. Context creation is idempotent per answer.
func (r *ContextRepository) HasContextForAnswer(ctx context.Context, answerID primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"answer_id": answerID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check for existing context: %v", err)
	}
	return true, nil
}

// GetRecentContexts returns the most recent question contexts for a user,
// newest first. Retrieval is by creation time, not semantic similarity.
func (r *ContextRepository) GetRecentContexts(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.QuestionContext, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch question contexts: %v", err)
	}
	defer cursor.Close(ctx)

	var contexts []models.QuestionContext
	if err := cursor.All(ctx, &contexts); err != nil {
		return nil, fmt.Errorf("failed to decode question contexts: %v", err)
	}
	return contexts, nil
}
