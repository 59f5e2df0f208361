package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetaQuestion is a template from which concrete question text is generated
// per firing, optionally biased by recent answer summaries.
type MetaQuestion struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	BasePrompt string             `bson:"base_prompt" json:"base_prompt"`
	TopicTags  []string           `bson:"topic_tags,omitempty" json:"topic_tags,omitempty"`
	Status     string             `bson:"status" json:"status"` // DRAFT | PUBLISH | ARCHIVE
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
