package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CharacterProfile is the per-user AI persona used for flavor text. One
// document per user.
type CharacterProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name               string             `bson:"name" json:"name"`
	Traits             []string           `bson:"traits" json:"traits"`
	GeneratedPrompt    string             `bson:"generated_prompt,omitempty" json:"generated_prompt,omitempty"`
	CustomInstructions string             `bson:"custom_instructions,omitempty" json:"custom_instructions,omitempty"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// DungeonLog is an append-only record of a completed quest block.
type DungeonLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	BlockID     string             `bson:"block_id" json:"block_id"`
	BlockName   string             `bson:"block_name" json:"block_name"`
	BlockType   string             `bson:"block_type" json:"block_type"` // Focus | Recovery | Flow | Admin | Social
	Day         string             `bson:"day" json:"day"`
	EnergyLevel int                `bson:"energy_level" json:"energy_level"`
	CompletedAt time.Time          `bson:"completed_at" json:"completed_at"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
