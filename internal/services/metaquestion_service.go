package services

import (
	"context"
	"fmt"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetaQuestionService encapsulates the business logic for meta-questions,
// the templates concrete question text is generated from.
type MetaQuestionService struct {
	repo *repository.MetaQuestionRepository
}

// NewMetaQuestionService creates a new instance of MetaQuestionService.
func NewMetaQuestionService(repo *repository.MetaQuestionRepository) *MetaQuestionService {
	return &MetaQuestionService{repo: repo}
}

// CreateMetaQuestion validates and stores a new meta-question.
func (s *MetaQuestionService) CreateMetaQuestion(ctx context.Context, meta *models.MetaQuestion) (*models.MetaQuestion, error) {
	if meta.BasePrompt == "" {
		logger.Log.Warn("Meta question base prompt is empty during creation")
		return nil, fmt.Errorf("base prompt is required")
	}
	if meta.Status == "" {
		meta.Status = models.QuestionStatusDraft
	}

	created, err := s.repo.CreateMetaQuestion(ctx, meta)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create meta question")
		return nil, fmt.Errorf("failed to create meta question: %v", err)
	}

	logger.Log.WithField("meta_question_id", created.ID.Hex()).Info("Meta question created")
	return created, nil
}

// GetMetaQuestion retrieves a meta-question by its ID.
func (s *MetaQuestionService) GetMetaQuestion(ctx context.Context, id string) (*models.MetaQuestion, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid meta question ID: %v", err)
	}

	meta, err := s.repo.GetMetaQuestionByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("meta_question_id", id).WithError(err).Error("Failed to get meta question")
		return nil, fmt.Errorf("failed to get meta question: %v", err)
	}
	return meta, nil
}

// ListMetaQuestions returns the user's meta-questions, optionally filtered
// by status.
func (s *MetaQuestionService) ListMetaQuestions(ctx context.Context, userID primitive.ObjectID, status string) ([]models.MetaQuestion, error) {
	metas, err := s.repo.GetMetaQuestions(ctx, userID, status)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list meta questions")
		return nil, fmt.Errorf("failed to list meta questions: %v", err)
	}
	return metas, nil
}

// UpdateMetaQuestion updates the base prompt, tags and status.
func (s *MetaQuestionService) UpdateMetaQuestion(ctx context.Context, id string, update *models.MetaQuestion) (*models.MetaQuestion, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid meta question ID: %v", err)
	}

	existing, err := s.repo.GetMetaQuestionByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meta question: %v", err)
	}

	if update.BasePrompt != "" {
		existing.BasePrompt = update.BasePrompt
	}
	if update.TopicTags != nil {
		existing.TopicTags = update.TopicTags
	}
	if update.Status != "" {
		existing.Status = update.Status
	}

	updated, err := s.repo.UpdateMetaQuestion(ctx, objID, existing)
	if err != nil {
		logger.Log.WithField("meta_question_id", id).WithError(err).Error("Failed to update meta question")
		return nil, fmt.Errorf("failed to update meta question: %v", err)
	}
	return updated, nil
}

// DeleteMetaQuestion removes a meta-question.
func (s *MetaQuestionService) DeleteMetaQuestion(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid meta question ID: %v", err)
	}

	if err := s.repo.DeleteMetaQuestion(ctx, objID); err != nil {
		logger.Log.WithField("meta_question_id", id).WithError(err).Error("Failed to delete meta question")
		return fmt.Errorf("failed to delete meta question: %v", err)
	}
	return nil
}
