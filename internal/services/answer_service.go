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

// summaryFallbackLimit caps the raw answer text used as a context summary
// when AI summarization is unavailable or fails.
const summaryFallbackLimit = 280

// AnswerSummarizer condenses one answer into a short context summary.
// Implemented by ai.Client.
type AnswerSummarizer interface {
	SummarizeAnswer(ctx context.Context, questionText, answerText string) (string, error)
}

// AnswerService encapsulates answer recording and the derived question
// context it produces.
type AnswerService struct {
	repo         *repository.AnswerRepository
	contextRepo  *repository.ContextRepository
	deliveryRepo *repository.DeliveryRepository
	summarizer   AnswerSummarizer
}

// NewAnswerService creates a new instance of AnswerService. summarizer may
// be nil, in which case context summaries fall back to truncated answer text.
func NewAnswerService(
	repo *repository.AnswerRepository,
	contextRepo *repository.ContextRepository,
	deliveryRepo *repository.DeliveryRepository,
	summarizer AnswerSummarizer,
) *AnswerService {
	return &AnswerService{
		repo:         repo,
		contextRepo:  contextRepo,
		deliveryRepo: deliveryRepo,
		summarizer:   summarizer,
	}
}

// CreateAnswer stores a new answer, acknowledges the originating delivery
// when one is referenced, and derives a question context from the answer.
// Context derivation is idempotent per answer and never fails the request.
func (s *AnswerService) CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error) {
	if answer.AnswerContent == "" {
		logger.Log.Warn("Answer content is empty during creation")
		return nil, fmt.Errorf("answer content is required")
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}

	created, err := s.repo.CreateAnswer(ctx, answer)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create answer")
		return nil, fmt.Errorf("failed to create answer: %v", err)
	}

	if created.DeliveryID != nil && !created.DeliveryID.IsZero() {
		if err := s.ackDelivery(ctx, *created.DeliveryID, created.UserID); err != nil {
			logger.Log.WithField("delivery_id", created.DeliveryID.Hex()).
				WithError(err).Warn("Failed to acknowledge delivery for answer")
		}
	}

	s.buildContext(ctx, created)

	logger.Log.WithField("answer_id", created.ID.Hex()).Info("Answer created")
	return created, nil
}

// ackDelivery flips the referenced delivery to ACKED. Deliveries owned by
// another user are rejected.
func (s *AnswerService) ackDelivery(ctx context.Context, deliveryID, userID primitive.ObjectID) error {
	delivery, err := s.deliveryRepo.GetDeliveryByID(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("failed to get delivery: %v", err)
	}
	if delivery.UserID != userID {
		return fmt.Errorf("delivery belongs to another user")
	}
	return s.deliveryRepo.AckDelivery(ctx, deliveryID)
}

// buildContext derives a QuestionContext from the answer: a short AI summary
// of question and answer, falling back to truncated answer text. Exactly one
// context exists per answer.
func (s *AnswerService) buildContext(ctx context.Context, answer *models.Answer) {
	exists, err := s.contextRepo.HasContextForAnswer(ctx, answer.ID)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to check for existing answer context")
		return
	}
	if exists {
		return
	}

	summary := ""
	if s.summarizer != nil {
		summary, err = s.summarizer.SummarizeAnswer(ctx, answer.SourceQuestionText, answer.AnswerContent)
		if err != nil {
			logger.Log.WithError(err).Warn("Answer summarization failed, using raw text")
			summary = ""
		}
	}
	if summary == "" {
		summary = answer.AnswerContent
		if len(summary) > summaryFallbackLimit {
			summary = summary[:summaryFallbackLimit]
		}
	}

	qc := &models.QuestionContext{
		UserID:   answer.UserID,
		AnswerID: answer.ID,
		Summary:  summary,
	}
	if err := s.contextRepo.CreateContext(ctx, qc); err != nil {
		logger.Log.WithField("answer_id", answer.ID.Hex()).
			WithError(err).Warn("Failed to store answer context")
	}
}

// GetAnswer retrieves an answer by its ID.
func (s *AnswerService) GetAnswer(ctx context.Context, id string) (*models.Answer, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid answer ID: %v", err)
	}

	answer, err := s.repo.GetAnswerByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("answer_id", id).WithError(err).Error("Failed to get answer")
		return nil, fmt.Errorf("failed to get answer: %v", err)
	}
	return answer, nil
}

// ListAnswers returns the user's answers, newest first.
func (s *AnswerService) ListAnswers(ctx context.Context, userID primitive.ObjectID) ([]models.Answer, error) {
	answers, err := s.repo.GetAnswers(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list answers")
		return nil, fmt.Errorf("failed to list answers: %v", err)
	}
	return answers, nil
}

// ListContexts returns the user's most recent derived contexts.
func (s *AnswerService) ListContexts(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.QuestionContext, error) {
	if limit <= 0 {
		limit = 20
	}

	contexts, err := s.contextRepo.GetRecentContexts(ctx, userID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list contexts")
		return nil, fmt.Errorf("failed to list contexts: %v", err)
	}
	return contexts, nil
}
