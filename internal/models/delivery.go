package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery channels.
const (
	DeliveryChannelFCM   = "FCM"
	DeliveryChannelEmail = "EMAIL"
	DeliveryChannelInApp = "IN_APP"
)

// Delivery statuses.
const (
	DeliveryStatusSent   = "SENT"
	DeliveryStatusFailed = "FAILED"
	DeliveryStatusAcked  = "ACKED"
)

// Delivery is the immutable record of one firing of a reservation. The
// question text is frozen at fire time so later edits to the question do not
// rewrite history. The only transition after creation is SENT -> ACKED when
// the user answers.
type Delivery struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	ReservationID primitive.ObjectID `bson:"reservation_id" json:"reservation_id"`
	QuestionText  string             `bson:"question_text" json:"question_text"`
	Channel       string             `bson:"channel" json:"channel"`
	Status        string             `bson:"status" json:"status"`
	ScheduledFor  time.Time          `bson:"scheduled_for" json:"scheduled_for"`
	SentAt        time.Time          `bson:"sent_at" json:"sent_at"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
