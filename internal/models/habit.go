package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllowedEmotions are the moods a habit entry may carry.
var AllowedEmotions = map[string]struct{}{
	"Happy":      {},
	"Calm":       {},
	"Anxious":    {},
	"Tired":      {},
	"Excited":    {},
	"Frustrated": {},
}

// HabitEntry is one mood/habit journal record.
type HabitEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Date       string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time       string             `bson:"time" json:"time"` // HH:MM
	Emotion    string             `bson:"emotion" json:"emotion"`
	Note       string             `bson:"note,omitempty" json:"note,omitempty"`
	AIResponse string             `bson:"ai_response,omitempty" json:"ai_response,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
