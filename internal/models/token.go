package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationToken is a per-device push address. Tokens reported invalid by
// the push provider are deleted by the dispatcher.
type NotificationToken struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Token      string             `bson:"token" json:"token"`
	Platform   string             `bson:"platform" json:"platform"` // web | ios | android
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	LastSeenAt time.Time          `bson:"last_seen_at" json:"last_seen_at"`
}

// LifeQuestionSettings is the per-user settings singleton for the life
// question bot. The timezone recorded here is snapshotted onto reservations
// at creation time.
type LifeQuestionSettings struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID `bson:"user_id" json:"user_id"`
	Timezone            string             `bson:"timezone" json:"timezone"`
	NotificationChannel string             `bson:"notification_channel,omitempty" json:"notification_channel,omitempty"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
}
