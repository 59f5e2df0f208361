package services

import (
	"context"
	"fmt"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultColumns seeds new boards that arrive without an explicit layout.
var defaultColumns = []models.Column{
	{ID: "todo", Title: "To Do", Order: 0},
	{ID: "doing", Title: "In Progress", Order: 1},
	{ID: "done", Title: "Done", Order: 2},
}

// BoardService encapsulates the business logic for quest boards and cards.
type BoardService struct {
	repo *repository.BoardRepository
}

// NewBoardService creates a new instance of BoardService.
func NewBoardService(repo *repository.BoardRepository) *BoardService {
	return &BoardService{repo: repo}
}

// CreateBoard stores a new board, seeding default columns when none are
// provided.
func (s *BoardService) CreateBoard(ctx context.Context, board *models.Board) (*models.Board, error) {
	if board.Title == "" {
		return nil, fmt.Errorf("board title is required")
	}
	if len(board.Columns) == 0 {
		board.Columns = append([]models.Column(nil), defaultColumns...)
	}

	created, err := s.repo.CreateBoard(ctx, board)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create board")
		return nil, fmt.Errorf("failed to create board: %v", err)
	}

	logger.Log.WithField("board_id", created.ID.Hex()).Info("Board created")
	return created, nil
}

// GetBoard retrieves a board by its ID.
func (s *BoardService) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid board ID: %v", err)
	}

	board, err := s.repo.GetBoardByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("board_id", id).WithError(err).Error("Failed to get board")
		return nil, fmt.Errorf("failed to get board: %v", err)
	}
	return board, nil
}

// ListBoards returns all boards owned by the user.
func (s *BoardService) ListBoards(ctx context.Context, userID primitive.ObjectID) ([]models.Board, error) {
	boards, err := s.repo.GetBoards(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list boards")
		return nil, fmt.Errorf("failed to list boards: %v", err)
	}
	return boards, nil
}

// UpdateBoard updates a board's title and column layout.
func (s *BoardService) UpdateBoard(ctx context.Context, id string, update *models.Board) (*models.Board, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid board ID: %v", err)
	}

	existing, err := s.repo.GetBoardByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %v", err)
	}

	if update.Title != "" {
		existing.Title = update.Title
	}
	if update.Columns != nil {
		existing.Columns = update.Columns
	}

	updated, err := s.repo.UpdateBoard(ctx, objID, existing)
	if err != nil {
		logger.Log.WithField("board_id", id).WithError(err).Error("Failed to update board")
		return nil, fmt.Errorf("failed to update board: %v", err)
	}
	return updated, nil
}

// DeleteBoard removes a board and all of its cards.
func (s *BoardService) DeleteBoard(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid board ID: %v", err)
	}

	if err := s.repo.DeleteBoard(ctx, objID); err != nil {
		logger.Log.WithField("board_id", id).WithError(err).Error("Failed to delete board")
		return fmt.Errorf("failed to delete board: %v", err)
	}
	return nil
}

// hasColumn reports whether the board defines the given column.
func hasColumn(board *models.Board, columnID string) bool {
	for _, col := range board.Columns {
		if col.ID == columnID {
			return true
		}
	}
	return false
}

// CreateCard validates the target board and column and stores a new card.
func (s *BoardService) CreateCard(ctx context.Context, boardID string, card *models.Card) (*models.Card, error) {
	if card.Title == "" {
		return nil, fmt.Errorf("card title is required")
	}

	objID, err := primitive.ObjectIDFromHex(boardID)
	if err != nil {
		return nil, fmt.Errorf("invalid board ID: %v", err)
	}

	board, err := s.repo.GetBoardByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %v", err)
	}
	if board.UserID != card.UserID {
		return nil, fmt.Errorf("board belongs to another user")
	}

	if card.ColumnID == "" && len(board.Columns) > 0 {
		card.ColumnID = board.Columns[0].ID
	}
	if !hasColumn(board, card.ColumnID) {
		return nil, fmt.Errorf("unknown column %q", card.ColumnID)
	}

	card.BoardID = objID

	created, err := s.repo.CreateCard(ctx, card)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create card")
		return nil, fmt.Errorf("failed to create card: %v", err)
	}

	logger.Log.WithField("card_id", created.ID.Hex()).Info("Card created")
	return created, nil
}

// ListCards returns all cards on a board.
func (s *BoardService) ListCards(ctx context.Context, boardID string) ([]models.Card, error) {
	objID, err := primitive.ObjectIDFromHex(boardID)
	if err != nil {
		return nil, fmt.Errorf("invalid board ID: %v", err)
	}

	cards, err := s.repo.GetCards(ctx, objID)
	if err != nil {
		logger.Log.WithField("board_id", boardID).WithError(err).Error("Failed to list cards")
		return nil, fmt.Errorf("failed to list cards: %v", err)
	}
	return cards, nil
}

// GetCard retrieves a card by its ID.
func (s *BoardService) GetCard(ctx context.Context, id string) (*models.Card, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid card ID: %v", err)
	}

	card, err := s.repo.GetCardByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %v", err)
	}
	return card, nil
}

// UpdateCard updates the mutable fields of a card.
func (s *BoardService) UpdateCard(ctx context.Context, id string, update *models.Card) (*models.Card, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid card ID: %v", err)
	}

	existing, err := s.repo.GetCardByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %v", err)
	}

	if update.Title != "" {
		existing.Title = update.Title
	}
	existing.Description = update.Description
	existing.Emoji = update.Emoji
	existing.Reward = update.Reward
	existing.IsCompleted = update.IsCompleted
	existing.CompletedAt = update.CompletedAt

	updated, err := s.repo.UpdateCard(ctx, objID, existing)
	if err != nil {
		logger.Log.WithField("card_id", id).WithError(err).Error("Failed to update card")
		return nil, fmt.Errorf("failed to update card: %v", err)
	}
	return updated, nil
}

// MoveCard relocates a card to another column and position on its board.
func (s *BoardService) MoveCard(ctx context.Context, id, columnID string, order int) (*models.Card, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid card ID: %v", err)
	}

	card, err := s.repo.GetCardByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %v", err)
	}

	board, err := s.repo.GetBoardByID(ctx, card.BoardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %v", err)
	}
	if !hasColumn(board, columnID) {
		return nil, fmt.Errorf("unknown column %q", columnID)
	}

	if err := s.repo.MoveCard(ctx, objID, columnID, order); err != nil {
		logger.Log.WithField("card_id", id).WithError(err).Error("Failed to move card")
		return nil, fmt.Errorf("failed to move card: %v", err)
	}

	card.ColumnID = columnID
	card.Order = order
	return card, nil
}

// DeleteCard removes a card.
func (s *BoardService) DeleteCard(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid card ID: %v", err)
	}

	if err := s.repo.DeleteCard(ctx, objID); err != nil {
		logger.Log.WithField("card_id", id).WithError(err).Error("Failed to delete card")
		return fmt.Errorf("failed to delete card: %v", err)
	}
	return nil
}
