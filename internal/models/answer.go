package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Answer is the user's response to a delivered (or directly opened) question.
// The source question text is captured at answer time, decoupled from the
// live question record. Answers are immutable once created.
type Answer struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID  `bson:"user_id" json:"user_id"`
	DeliveryID         *primitive.ObjectID `bson:"delivery_id,omitempty" json:"delivery_id,omitempty"`
	ReservationID      *primitive.ObjectID `bson:"reservation_id,omitempty" json:"reservation_id,omitempty"`
	SourceQuestionText string              `bson:"source_question_text" json:"source_question_text"`
	AnswerContent      string              `bson:"answer_content" json:"answer_content"`
	AnsweredAt         time.Time           `bson:"answered_at" json:"answered_at"`
	CreatedAt          time.Time           `bson:"created_at" json:"created_at"`
}

// QuestionContext is a derived summary of one answer, retrieved as context
// when generating future meta-question text. Created exactly once per answer.
// The embedding field exists for future similarity search and is currently
// never populated.
type QuestionContext struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	AnswerID  primitive.ObjectID `bson:"answer_id" json:"answer_id"`
	Summary   string             `bson:"summary" json:"summary"`
	Embedding []float64          `bson:"embedding,omitempty" json:"embedding,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
