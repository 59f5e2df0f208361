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

// BoardRepository handles database operations for quest boards and cards.
type BoardRepository struct {
	boards *mongo.Collection
	cards  *mongo.Collection
}

// NewBoardRepository creates a new instance of BoardRepository.
func NewBoardRepository(db *mongo.Database) *BoardRepository {
	return &BoardRepository{
		boards: db.Collection("boards"),
		cards:  db.Collection("cards"),
	}
}

// CreateBoard inserts a new board.
func (r *BoardRepository) CreateBoard(ctx context.Context, board *models.Board) (*models.Board, error) {
	board.CreatedAt = time.Now()
	board.UpdatedAt = time.Now()

	result, err := r.boards.InsertOne(ctx, board)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert board")
		return nil, fmt.Errorf("failed to create board: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted board ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	board.ID = insertedID

	logger.Log.WithField("board_id", board.ID.Hex()).Info("Board created")
	return board, nil
}

// GetBoardByID fetches a board by its ID.
func (r *BoardRepository) GetBoardByID(ctx context.Context, id primitive.ObjectID) (*models.Board, error) {
	var board models.Board
	err := r.boards.FindOne(ctx, bson.M{"_id": id}).Decode(&board)
	if err != nil {
		logger.Log.WithError(err).WithField("board_id", id.Hex()).Warn("Failed to find board")
		return nil, fmt.Errorf("failed to find board: %v", err)
	}
	return &board, nil
}

// GetBoards fetches all boards belonging to a user.
func (r *BoardRepository) GetBoards(ctx context.Context, userID primitive.ObjectID) ([]models.Board, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.boards.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boards: %v", err)
	}
	defer cursor.Close(ctx)

	var boards []models.Board
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, fmt.Errorf("failed to decode boards: %v", err)
	}
	return boards, nil
}

// UpdateBoard replaces the mutable fields of a board.
func (r *BoardRepository) UpdateBoard(ctx context.Context, id primitive.ObjectID, board *models.Board) (*models.Board, error) {
	board.UpdatedAt = time.Now()

	_, err := r.boards.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": board})
	if err != nil {
		logger.Log.WithError(err).WithField("board_id", id.Hex()).Error("Failed to update board")
		return nil, fmt.Errorf("failed to update board: %v", err)
	}
	return board, nil
}

// DeleteBoard deletes a board and all of its cards.
func (r *BoardRepository) DeleteBoard(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.cards.DeleteMany(ctx, bson.M{"board_id": id}); err != nil {
		logger.Log.WithError(err).WithField("board_id", id.Hex()).Error("Failed to delete board cards")
		return fmt.Errorf("failed to delete board cards: %v", err)
	}
	if _, err := r.boards.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		logger.Log.WithError(err).WithField("board_id", id.Hex()).Error("Failed to delete board")
		return fmt.Errorf("failed to delete board: %v", err)
	}
	return nil
}

// CreateCard inserts a new card.
func (r *BoardRepository) CreateCard(ctx context.Context, card *models.Card) (*models.Card, error) {
	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()

	result, err := r.cards.InsertOne(ctx, card)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert card")
		return nil, fmt.Errorf("failed to create card: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted card ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	card.ID = insertedID
	return card, nil
}

// GetCardByID fetches a card by its ID.
func (r *BoardRepository) GetCardByID(ctx context.Context, id primitive.ObjectID) (*models.Card, error) {
	var card models.Card
	err := r.cards.FindOne(ctx, bson.M{"_id": id}).Decode(&card)
	if err != nil {
		logger.Log.WithError(err).WithField("card_id", id.Hex()).Warn("Failed to find card")
		return nil, fmt.Errorf("failed to find card: %v", err)
	}
	return &card, nil
}

// GetCards fetches all cards of a board ordered by column and position.
func (r *BoardRepository) GetCards(ctx context.Context, boardID primitive.ObjectID) ([]models.Card, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "column_id", Value: 1},
		{Key: "order", Value: 1},
	})
	cursor, err := r.cards.Find(ctx, bson.M{"board_id": boardID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %v", err)
	}
	defer cursor.Close(ctx)

	var cards []models.Card
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %v", err)
	}
	return cards, nil
}

// UpdateCard replaces the mutable fields of a card.
func (r *BoardRepository) UpdateCard(ctx context.Context, id primitive.ObjectID, card *models.Card) (*models.Card, error) {
	card.UpdatedAt = time.Now()

	_, err := r.cards.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": card})
	if err != nil {
		logger.Log.WithError(err).WithField("card_id", id.Hex()).Error("Failed to update card")
		return nil, fmt.Errorf("failed to update card: %v", err)
	}
	return card, nil
}

// MoveCard relocates a card to a column/position.
func (r *BoardRepository) MoveCard(ctx context.Context, id primitive.ObjectID, columnID string, order int) error {
	update := bson.M{"$set": bson.M{
		"column_id":  columnID,
		"order":      order,
		"updated_at": time.Now(),
	}}
	if _, err := r.cards.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.Log.WithError(err).WithField("card_id", id.Hex()).Error("Failed to move card")
		return fmt.Errorf("failed to move card: %v", err)
	}
	return nil
}

// DeleteCard deletes a card by its ID.
func (r *BoardRepository) DeleteCard(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.cards.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		logger.Log.WithError(err).WithField("card_id", id.Hex()).Error("Failed to delete card")
		return fmt.Errorf("failed to delete card: %v", err)
	}
	return nil
}
