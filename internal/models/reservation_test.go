package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReservationValidate(t *testing.T) {
	questionID := primitive.NewObjectID()
	metaID := primitive.NewObjectID()
	target := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		res     QuestionReservation
		wantErr bool
	}{
		{
			name: "fixed with question and target",
			res: QuestionReservation{
				QuestionID: &questionID,
				Type:       ReservationTypeFixed,
				TargetTime: &target,
			},
		},
		{
			name: "recurring with cron",
			res: QuestionReservation{
				QuestionID:     &questionID,
				Type:           ReservationTypeRecurring,
				CronExpression: "0 9 * * *",
			},
		},
		{
			name: "generated with meta and target",
			res: QuestionReservation{
				MetaQuestionID: &metaID,
				Type:           ReservationTypeAIGenerated,
				TargetTime:     &target,
			},
		},
		{
			name: "both targets set",
			res: QuestionReservation{
				QuestionID:     &questionID,
				MetaQuestionID: &metaID,
				Type:           ReservationTypeFixed,
				TargetTime:     &target,
			},
			wantErr: true,
		},
		{
			name:    "no target set",
			res:     QuestionReservation{Type: ReservationTypeFixed, TargetTime: &target},
			wantErr: true,
		},
		{
			name: "fixed without target time",
			res: QuestionReservation{
				QuestionID: &questionID,
				Type:       ReservationTypeFixed,
			},
			wantErr: true,
		},
		{
			name: "recurring without cron",
			res: QuestionReservation{
				QuestionID: &questionID,
				Type:       ReservationTypeRecurring,
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			res: QuestionReservation{
				QuestionID: &questionID,
				Type:       "SOMEDAY",
				TargetTime: &target,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
