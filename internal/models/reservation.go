package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reservation types.
const (
	ReservationTypeFixed       = "FIXED"
	ReservationTypeRecurring   = "RECURRING"
	ReservationTypeAIGenerated = "AI_GENERATED"
)

// QuestionReservation is a scheduled firing instruction for a question or a
// meta-question. Exactly one of QuestionID / MetaQuestionID is set.
//
// For FIXED and AI_GENERATED reservations IsProcessed becomes true after the
// single firing; RECURRING reservations keep IsProcessed false and have
// NextRunAt advanced after every firing. Processing is a short-lived claim
// flag preventing two overlapping scheduler ticks from firing the same
// reservation twice.
type QuestionReservation struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"user_id" json:"user_id"`
	QuestionID     *primitive.ObjectID `bson:"question_id,omitempty" json:"question_id,omitempty"`
	MetaQuestionID *primitive.ObjectID `bson:"meta_question_id,omitempty" json:"meta_question_id,omitempty"`
	Type           string              `bson:"type" json:"type"`
	TargetTime     *time.Time          `bson:"target_time,omitempty" json:"target_time,omitempty"`
	CronExpression string              `bson:"cron_expression,omitempty" json:"cron_expression,omitempty"`
	NextRunAt      time.Time           `bson:"next_run_at" json:"next_run_at"`
	LastRunAt      *time.Time          `bson:"last_run_at,omitempty" json:"last_run_at,omitempty"`
	IsProcessed    bool                `bson:"is_processed" json:"is_processed"`
	Processing     bool                `bson:"processing" json:"-"`
	Timezone       string              `bson:"timezone" json:"timezone"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// Validate enforces the structural invariants a reservation must satisfy
// before it is written: the question/meta-question target is exclusive, the
// type is known, and the type-specific schedule field is present.
func (r *QuestionReservation) Validate() error {
	hasQuestion := r.QuestionID != nil && !r.QuestionID.IsZero()
	hasMeta := r.MetaQuestionID != nil && !r.MetaQuestionID.IsZero()

	if hasQuestion == hasMeta {
		return fmt.Errorf("reservation must reference exactly one of question or meta question")
	}

	switch r.Type {
	case ReservationTypeFixed, ReservationTypeAIGenerated:
		if r.TargetTime == nil || r.TargetTime.IsZero() {
			return fmt.Errorf("%s reservation requires a target time", r.Type)
		}
	case ReservationTypeRecurring:
		if r.CronExpression == "" {
			return fmt.Errorf("recurring reservation requires a cron expression")
		}
	default:
		return fmt.Errorf("unknown reservation type %q", r.Type)
	}

	return nil
}
