package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question lifecycle statuses.
const (
	QuestionStatusDraft   = "DRAFT"
	QuestionStatusPublish = "PUBLISH"
	QuestionStatusDone    = "DONE"
	QuestionStatusArchive = "ARCHIVE"
)

// AllowedQuestionStatuses is the set of statuses a user may assign directly.
var AllowedQuestionStatuses = map[string]struct{}{
	QuestionStatusDraft:   {},
	QuestionStatusPublish: {},
	QuestionStatusDone:    {},
	QuestionStatusArchive: {},
}

// Question is a static, user-authored life question. It becomes schedulable
// once published and is marked DONE when a fixed reservation fires for it.
type Question struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Content   string             `bson:"content" json:"content"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
