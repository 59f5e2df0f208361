package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var allowedBlockTypes = map[string]struct{}{
	"Focus":    {},
	"Recovery": {},
	"Flow":     {},
	"Admin":    {},
	"Social":   {},
}

// CharacterService manages the per-user AI persona and the dungeon log of
// completed quest blocks.
type CharacterService struct {
	repo      *repository.CharacterRepository
	generator ResponseGenerator
}

// NewCharacterService creates a new instance of CharacterService. generator
// may be nil, in which case the persona prompt falls back to plain text.
func NewCharacterService(repo *repository.CharacterRepository, generator ResponseGenerator) *CharacterService {
	return &CharacterService{repo: repo, generator: generator}
}

// GetProfile returns the user's character profile, or an empty profile when
// none has been saved yet.
func (s *CharacterService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.CharacterProfile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to get character profile")
		return nil, fmt.Errorf("failed to get character profile: %v", err)
	}
	if profile == nil {
		profile = &models.CharacterProfile{UserID: userID}
	}
	return profile, nil
}

// UpdateProfile upserts the user's character profile and refreshes the
// generated persona prompt. Persona generation is best effort.
func (s *CharacterService) UpdateProfile(ctx context.Context, profile *models.CharacterProfile) (*models.CharacterProfile, error) {
	if profile.Name == "" {
		return nil, fmt.Errorf("character name is required")
	}

	profile.GeneratedPrompt = s.personaPrompt(ctx, profile)

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		logger.Log.WithError(err).Error("Failed to update character profile")
		return nil, fmt.Errorf("failed to update character profile: %v", err)
	}

	logger.Log.WithField("user_id", profile.UserID.Hex()).Info("Character profile updated")
	return profile, nil
}

// personaPrompt builds the persona instruction used when the bot speaks in
// character. Falls back to a plain template when generation fails.
func (s *CharacterService) personaPrompt(ctx context.Context, profile *models.CharacterProfile) string {
	fallback := fmt.Sprintf("You are %s, a companion with these traits: %s.",
		profile.Name, strings.Join(profile.Traits, ", "))

	if s.generator == nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Write a short system instruction for an AI companion named %s with these traits: %s. "+
			"Extra instructions from the user: %s. Return only the instruction text.",
		profile.Name, strings.Join(profile.Traits, ", "), profile.CustomInstructions,
	)
	generated, err := s.generator.Generate(ctx, prompt)
	if err != nil || generated == "" {
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to generate persona prompt")
		}
		return fallback
	}
	return generated
}

// CreateLog appends a dungeon log record for a completed quest block.
func (s *CharacterService) CreateLog(ctx context.Context, log *models.DungeonLog) (*models.DungeonLog, error) {
	if log.BlockName == "" {
		return nil, fmt.Errorf("block name is required")
	}
	if _, ok := allowedBlockTypes[log.BlockType]; !ok {
		return nil, fmt.Errorf("invalid block type %q", log.BlockType)
	}
	if log.EnergyLevel < 1 || log.EnergyLevel > 10 {
		return nil, fmt.Errorf("energy level must be between 1 and 10")
	}

	created, err := s.repo.CreateLog(ctx, log)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create dungeon log")
		return nil, fmt.Errorf("failed to create dungeon log: %v", err)
	}

	logger.Log.WithField("log_id", created.ID.Hex()).Info("Dungeon log created")
	return created, nil
}

// ListLogs returns the user's most recent dungeon log records.
func (s *CharacterService) ListLogs(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.DungeonLog, error) {
	if limit <= 0 {
		limit = 50
	}

	logs, err := s.repo.GetLogs(ctx, userID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list dungeon logs")
		return nil, fmt.Errorf("failed to list dungeon logs: %v", err)
	}
	return logs, nil
}
