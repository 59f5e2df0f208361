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

// ResponseGenerator produces short free-form text from a prompt.
// Implemented by ai.Client.
type ResponseGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HabitService encapsulates the habit journal logic.
type HabitService struct {
	repo      *repository.HabitRepository
	generator ResponseGenerator
}

// NewHabitService creates a new instance of HabitService. generator may be
// nil, in which case entries are stored without an AI response.
func NewHabitService(repo *repository.HabitRepository, generator ResponseGenerator) *HabitService {
	return &HabitService{repo: repo, generator: generator}
}

// CreateEntry validates and stores a journal entry, attaching a short
// supportive AI response when a note is present. Response generation is
// best effort and never fails the request.
func (s *HabitService) CreateEntry(ctx context.Context, entry *models.HabitEntry) (*models.HabitEntry, error) {
	if _, ok := models.AllowedEmotions[entry.Emotion]; !ok {
		return nil, fmt.Errorf("invalid emotion %q", entry.Emotion)
	}
	if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", entry.Date)
	}
	if _, err := time.Parse("15:04", entry.Time); err != nil {
		return nil, fmt.Errorf("invalid time %q, expected HH:MM", entry.Time)
	}

	if s.generator != nil && entry.Note != "" {
		prompt := fmt.Sprintf(
			"The user is feeling %s and wrote in their journal: %q. "+
				"Reply with one short, warm, encouraging sentence.",
			entry.Emotion, entry.Note,
		)
		response, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to generate habit response")
		} else {
			entry.AIResponse = response
		}
	}

	created, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create habit entry")
		return nil, fmt.Errorf("failed to create habit entry: %v", err)
	}

	logger.Log.WithField("entry_id", created.ID.Hex()).Info("Habit entry created")
	return created, nil
}

// GetEntry retrieves a journal entry by its ID.
func (s *HabitService) GetEntry(ctx context.Context, id string) (*models.HabitEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid entry ID: %v", err)
	}

	entry, err := s.repo.GetEntryByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("entry_id", id).WithError(err).Error("Failed to get habit entry")
		return nil, fmt.Errorf("failed to get habit entry: %v", err)
	}
	return entry, nil
}

// ListEntries returns the user's journal entries.
func (s *HabitService) ListEntries(ctx context.Context, userID primitive.ObjectID) ([]models.HabitEntry, error) {
	entries, err := s.repo.GetEntries(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list habit entries")
		return nil, fmt.Errorf("failed to list habit entries: %v", err)
	}
	return entries, nil
}

// DeleteEntry removes a journal entry.
func (s *HabitService) DeleteEntry(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid entry ID: %v", err)
	}

	if err := s.repo.DeleteEntry(ctx, objID); err != nil {
		logger.Log.WithField("entry_id", id).WithError(err).Error("Failed to delete habit entry")
		return fmt.Errorf("failed to delete habit entry: %v", err)
	}
	return nil
}
