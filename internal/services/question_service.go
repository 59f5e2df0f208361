package services

import (
	"context"
	"fmt"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionService encapsulates the business logic for life questions.
type QuestionService struct {
	repo *repository.QuestionRepository
}

// NewQuestionService creates a new instance of QuestionService.
func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{repo: repo}
}

// CreateQuestion validates and stores a new question. Questions start as
// DRAFT unless a valid status is supplied.
func (s *QuestionService) CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	if question.Content == "" {
		logger.Log.Warn("Question content is empty during creation")
		return nil, fmt.Errorf("question content is required")
	}

	if question.Status == "" {
		question.Status = models.QuestionStatusDraft
	}
	if _, ok := models.AllowedQuestionStatuses[question.Status]; !ok {
		return nil, fmt.Errorf("invalid question status %q", question.Status)
	}

	created, err := s.repo.CreateQuestion(ctx, question)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create question")
		return nil, fmt.Errorf("failed to create question: %v", err)
	}

	logger.Log.WithField("question_id", created.ID.Hex()).Info("Question created")
	return created, nil
}

// GetQuestion retrieves a question by its ID.
func (s *QuestionService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid question ID: %v", err)
	}

	question, err := s.repo.GetQuestionByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("question_id", id).WithError(err).Error("Failed to get question")
		return nil, fmt.Errorf("failed to get question: %v", err)
	}
	return question, nil
}

// ListQuestions returns the user's questions, optionally filtered by status.
func (s *QuestionService) ListQuestions(ctx context.Context, userID primitive.ObjectID, status string) ([]models.Question, error) {
	if status != "" {
		if _, ok := models.AllowedQuestionStatuses[status]; !ok {
			return nil, fmt.Errorf("invalid question status %q", status)
		}
	}

	questions, err := s.repo.GetQuestions(ctx, userID, status)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list questions")
		return nil, fmt.Errorf("failed to list questions: %v", err)
	}
	return questions, nil
}

// UpdateQuestion updates content and status of an existing question.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id string, update *models.Question) (*models.Question, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid question ID: %v", err)
	}

	existing, err := s.repo.GetQuestionByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %v", err)
	}

	if update.Content != "" {
		existing.Content = update.Content
	}
	if update.Status != "" {
		if _, ok := models.AllowedQuestionStatuses[update.Status]; !ok {
			return nil, fmt.Errorf("invalid question status %q", update.Status)
		}
		existing.Status = update.Status
	}

	updated, err := s.repo.UpdateQuestion(ctx, objID, existing)
	if err != nil {
		logger.Log.WithField("question_id", id).WithError(err).Error("Failed to update question")
		return nil, fmt.Errorf("failed to update question: %v", err)
	}
	return updated, nil
}

// DeleteQuestion removes a question.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid question ID: %v", err)
	}

	if err := s.repo.DeleteQuestion(ctx, objID); err != nil {
		logger.Log.WithField("question_id", id).WithError(err).Error("Failed to delete question")
		return fmt.Errorf("failed to delete question: %v", err)
	}
	return nil
}
