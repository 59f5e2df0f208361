package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Column is one lane of a quest board, embedded in the board document.
type Column struct {
	ID    string `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	Order int    `bson:"order" json:"order"`
}

// Board is a kanban quest board. Columns are embedded; cards live in their
// own collection and reference the board and a column.
type Board struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title" json:"title"`
	Columns   []Column           `bson:"columns" json:"columns"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Card is a single quest on a board.
type Card struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	BoardID     primitive.ObjectID `bson:"board_id" json:"board_id"`
	ColumnID    string             `bson:"column_id" json:"column_id"`
	Order       int                `bson:"order" json:"order"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Emoji       string             `bson:"emoji,omitempty" json:"emoji,omitempty"`
	Reward      string             `bson:"reward,omitempty" json:"reward,omitempty"`
	IsCompleted bool               `bson:"is_completed" json:"is_completed"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
