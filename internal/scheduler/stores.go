package scheduler

import (
	"context"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Storage interfaces consumed by the scheduler. The Mongo repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.

type ReservationStore interface {
	FindDue(ctx context.Context, now time.Time, limit int64) ([]models.QuestionReservation, error)
	ClaimDue(ctx context.Context, id primitive.ObjectID) (bool, error)
	ReleaseClaim(ctx context.Context, id primitive.ObjectID) error
	MarkProcessed(ctx context.Context, id primitive.ObjectID, firedAt time.Time) error
	AdvanceRecurring(ctx context.Context, id primitive.ObjectID, nextRunAt, firedAt time.Time) error
}

type QuestionStore interface {
	GetQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)
	SetQuestionStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type MetaQuestionStore interface {
	GetMetaQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.MetaQuestion, error)
}

type ContextStore interface {
	GetRecentContexts(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.QuestionContext, error)
}

type TokenStore interface {
	GetTokens(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationToken, error)
	DeleteToken(ctx context.Context, userID primitive.ObjectID, token string) error
}

type DeliveryStore interface {
	CreateDelivery(ctx context.Context, delivery *models.Delivery) error
}

type SettingsStore interface {
	GetSettings(ctx context.Context, userID primitive.ObjectID) (*models.LifeQuestionSettings, error)
}

type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// TextGenerator is the opaque prompt-in/text-out collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmailSender delivers a question over the EMAIL channel.
type EmailSender func(to, subject, body string) error
