package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var allowedEnergyLevels = map[string]struct{}{
	"High":     {},
	"Moderate": {},
	"Low":      {},
	"Recharge": {},
}

// toggleLogEnergy is the energy recorded on dungeon logs created from a
// block toggle, where the user has not rated the run yet.
const toggleLogEnergy = 3

// WeekService manages the per-user weekly dungeon schedule.
type WeekService struct {
	repo       *repository.WeekRepository
	boards     *repository.BoardRepository
	characters *repository.CharacterRepository
}

// NewWeekService creates a new instance of WeekService.
func NewWeekService(repo *repository.WeekRepository, boards *repository.BoardRepository, characters *repository.CharacterRepository) *WeekService {
	return &WeekService{repo: repo, boards: boards, characters: characters}
}

// validateWeekKey checks that the key is a yyyy-mm-dd date.
func validateWeekKey(weekKey string) error {
	if _, err := time.Parse("2006-01-02", weekKey); err != nil {
		return fmt.Errorf("invalid week key %q: %v", weekKey, err)
	}
	return nil
}

// isWeekDayKey reports whether key names one of the seven day buckets.
func isWeekDayKey(key string) bool {
	for _, day := range models.WeekDayKeys {
		if day == key {
			return true
		}
	}
	return false
}

// validateBlock checks a schedule block and assigns an ID when absent.
func validateBlock(block *models.ScheduleBlock) error {
	if block.Name == "" {
		return fmt.Errorf("block name is required")
	}
	if _, ok := allowedBlockTypes[block.BlockType]; !ok {
		return fmt.Errorf("invalid block type %q", block.BlockType)
	}
	if _, ok := allowedEnergyLevels[block.EnergyLevel]; !ok {
		return fmt.Errorf("invalid energy level %q", block.EnergyLevel)
	}
	if block.ID == "" {
		block.ID = primitive.NewObjectID().Hex()
	}
	return nil
}

// validateDays checks every day bucket and block of an incoming week payload.
func validateDays(days map[string]models.DaySchedule) error {
	for dayKey, day := range days {
		if !isWeekDayKey(dayKey) {
			return fmt.Errorf("unknown day %q", dayKey)
		}
		for i := range day.Blocks {
			if err := validateBlock(&day.Blocks[i]); err != nil {
				return fmt.Errorf("day %s: %v", dayKey, err)
			}
		}
		days[dayKey] = day
	}
	return nil
}

// replaceBlock swaps the block with a matching ID, wherever its day is.
// Returns false when no day contains the block.
func replaceBlock(days map[string]models.DaySchedule, block models.ScheduleBlock) bool {
	for dayKey, day := range days {
		for i := range day.Blocks {
			if day.Blocks[i].ID == block.ID {
				day.Blocks[i] = block
				days[dayKey] = day
				return true
			}
		}
	}
	return false
}

// setBlockDone flips the done flag on one block of one day. Returns the
// previous done state and whether the block was found.
func setBlockDone(days map[string]models.DaySchedule, dayKey, blockID string, done bool) (wasDone, found bool) {
	day, ok := days[dayKey]
	if !ok {
		return false, false
	}
	for i := range day.Blocks {
		if day.Blocks[i].ID == blockID {
			wasDone = day.Blocks[i].Done
			day.Blocks[i].Done = done
			days[dayKey] = day
			return wasDone, true
		}
	}
	return false, false
}

// GetWeek returns the user's week document, or nil when none exists yet.
func (s *WeekService) GetWeek(ctx context.Context, userID primitive.ObjectID, weekKey string) (*models.Week, error) {
	if err := validateWeekKey(weekKey); err != nil {
		return nil, err
	}

	week, err := s.repo.GetWeek(ctx, userID, weekKey)
	if err != nil {
		logger.Log.WithField("week_key", weekKey).WithError(err).Error("Failed to get week")
		return nil, fmt.Errorf("failed to get week: %v", err)
	}
	return week, nil
}

// SaveWeek merges the given day buckets into the user's week document,
// creating it on first save. Days not present in the payload are kept.
func (s *WeekService) SaveWeek(ctx context.Context, userID primitive.ObjectID, weekKey string, days map[string]models.DaySchedule) (*models.Week, error) {
	if err := validateWeekKey(weekKey); err != nil {
		return nil, err
	}
	if err := validateDays(days); err != nil {
		return nil, err
	}

	week, err := s.repo.GetWeek(ctx, userID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %v", err)
	}
	if week == nil {
		week = &models.Week{
			UserID:  userID,
			WeekKey: weekKey,
			Days:    map[string]models.DaySchedule{},
		}
	}
	if week.Days == nil {
		week.Days = map[string]models.DaySchedule{}
	}
	for dayKey, day := range days {
		week.Days[dayKey] = day
	}

	if err := s.repo.UpsertWeek(ctx, week); err != nil {
		logger.Log.WithField("week_key", weekKey).WithError(err).Error("Failed to save week")
		return nil, fmt.Errorf("failed to save week: %v", err)
	}

	logger.Log.WithField("week_key", weekKey).Info("Week saved")
	return week, nil
}

// UpdateBlock replaces a block in place, whichever day currently holds it.
func (s *WeekService) UpdateBlock(ctx context.Context, userID primitive.ObjectID, weekKey string, block models.ScheduleBlock) (*models.Week, error) {
	if block.ID == "" {
		return nil, fmt.Errorf("block ID is required")
	}
	if err := validateBlock(&block); err != nil {
		return nil, err
	}

	week, err := s.GetWeek(ctx, userID, weekKey)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, fmt.Errorf("week %s not found", weekKey)
	}

	if !replaceBlock(week.Days, block) {
		return nil, fmt.Errorf("block %s not found in week %s", block.ID, weekKey)
	}

	if err := s.repo.UpsertWeek(ctx, week); err != nil {
		return nil, fmt.Errorf("failed to save week: %v", err)
	}
	return week, nil
}

// ToggleBlockDone sets the done flag on one block. Completing a block also
// appends a dungeon log record; a log write failure does not fail the toggle.
func (s *WeekService) ToggleBlockDone(ctx context.Context, userID primitive.ObjectID, weekKey, dayKey, blockID string, done bool) (*models.Week, error) {
	week, err := s.GetWeek(ctx, userID, weekKey)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, fmt.Errorf("week %s not found", weekKey)
	}

	day, ok := week.Days[dayKey]
	if !ok {
		return nil, fmt.Errorf("day %s not found in week %s", dayKey, weekKey)
	}

	wasDone, found := setBlockDone(week.Days, dayKey, blockID, done)
	if !found {
		return nil, fmt.Errorf("block %s not found on %s", blockID, dayKey)
	}

	if done && !wasDone {
		var block models.ScheduleBlock
		for _, b := range day.Blocks {
			if b.ID == blockID {
				block = b
				break
			}
		}
		log := &models.DungeonLog{
			UserID:      userID,
			BlockID:     block.ID,
			BlockName:   block.Name,
			BlockType:   block.BlockType,
			Day:         dayKey,
			EnergyLevel: toggleLogEnergy,
			CompletedAt: time.Now(),
		}
		if _, err := s.characters.CreateLog(ctx, log); err != nil {
			logger.Log.WithError(err).WithField("block_id", blockID).Warn("Failed to log completed block")
		}
	}

	if err := s.repo.UpsertWeek(ctx, week); err != nil {
		return nil, fmt.Errorf("failed to save week: %v", err)
	}
	return week, nil
}

// ExportBoard materializes the week as a quest board, one column per day and
// one card per block. An earlier export of the same week is replaced.
func (s *WeekService) ExportBoard(ctx context.Context, userID primitive.ObjectID, weekKey string) (*models.Board, error) {
	week, err := s.GetWeek(ctx, userID, weekKey)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, fmt.Errorf("week %s not found", weekKey)
	}

	title := fmt.Sprintf("Weekly Dungeon %s", weekKey)

	existing, err := s.boards.GetBoards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %v", err)
	}
	for i := range existing {
		if existing[i].Title == title {
			if err := s.boards.DeleteBoard(ctx, existing[i].ID); err != nil {
				return nil, fmt.Errorf("failed to replace board: %v", err)
			}
			break
		}
	}

	board := &models.Board{
		UserID:  userID,
		Title:   title,
		Columns: weekColumns(week.Days),
	}
	board, err = s.boards.CreateBoard(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %v", err)
	}

	for _, dayKey := range models.WeekDayKeys {
		day, ok := week.Days[dayKey]
		if !ok {
			continue
		}
		for i, block := range day.Blocks {
			card := &models.Card{
				UserID:      userID,
				BoardID:     board.ID,
				ColumnID:    dayKey,
				Order:       i,
				Title:       block.Name,
				Description: cardDescription(block),
				Emoji:       block.Emoji,
				IsCompleted: block.Done,
			}
			if _, err := s.boards.CreateCard(ctx, card); err != nil {
				return nil, fmt.Errorf("failed to create card: %v", err)
			}
		}
	}

	logger.Log.WithField("board_id", board.ID.Hex()).Info("Week exported as board")
	return board, nil
}

// weekColumns builds one ordered board column per populated day.
func weekColumns(days map[string]models.DaySchedule) []models.Column {
	var columns []models.Column
	for _, dayKey := range models.WeekDayKeys {
		day, ok := days[dayKey]
		if !ok {
			continue
		}
		title := day.Title
		if title == "" {
			title = dayKey
		}
		columns = append(columns, models.Column{ID: dayKey, Title: title, Order: len(columns)})
	}
	return columns
}

// cardDescription folds a block's time window and note into card text.
func cardDescription(block models.ScheduleBlock) string {
	window := strings.TrimSuffix(fmt.Sprintf("%s-%s", block.StartTime, block.EndTime), "-")
	return strings.TrimSpace(window + " " + block.Note)
}
