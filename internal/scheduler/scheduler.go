package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultPipelineTimeout bounds one reservation's resolve/dispatch/record/
// advance pipeline so a hung external call cannot stall the whole tick.
const defaultPipelineTimeout = 30 * time.Second

// Scheduler drives due question reservations through the delivery pipeline.
// It is invoked once per tick by the cron trigger.
type Scheduler struct {
	reservations ReservationStore
	questions    QuestionStore
	deliveries   DeliveryStore
	settings     SettingsStore
	users        UserStore
	resolver     *Resolver
	dispatcher   *Dispatcher
	email        EmailSender

	batchSize int64
	timeout   time.Duration
	now       func() time.Time
}

// New creates a Scheduler. email may be nil, in which case the EMAIL channel
// preference is ignored and everything goes through push.
func New(
	reservations ReservationStore,
	questions QuestionStore,
	deliveries DeliveryStore,
	settings SettingsStore,
	users UserStore,
	resolver *Resolver,
	dispatcher *Dispatcher,
	email EmailSender,
	batchSize int64,
) *Scheduler {
	return &Scheduler{
		reservations: reservations,
		questions:    questions,
		deliveries:   deliveries,
		settings:     settings,
		users:        users,
		resolver:     resolver,
		dispatcher:   dispatcher,
		email:        email,
		batchSize:    batchSize,
		timeout:      defaultPipelineTimeout,
		now:          time.Now,
	}
}

// Tick runs one scheduler pass: find due reservations across all users and
// drive each through resolve -> dispatch -> record -> advance. A failure in
// one reservation's pipeline never aborts the remaining ones; reservations
// beyond the batch cap simply wait for the next tick.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now()

	due, err := s.reservations.FindDue(ctx, now, s.batchSize)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to query due reservations")
		return err
	}

	for i := range due {
		res := &due[i]
		if err := s.processReservation(ctx, res, now); err != nil {
			logger.Log.WithError(err).WithField("reservation_id", res.ID.Hex()).Error("Reservation processing failed")
		}
	}
	return nil
}

func (s *Scheduler) processReservation(ctx context.Context, res *models.QuestionReservation, now time.Time) error {
	// Claim first so an overlapping tick cannot fire the same reservation.
	claimed, err := s.reservations.ClaimDue(ctx, res.ID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	questionText := s.resolver.ResolveText(pctx, res)
	if questionText == "" {
		// Target gone or generation target missing: stays due, retried next
		// tick. The claim is released so the retry can happen.
		logger.Log.WithField("reservation_id", res.ID.Hex()).Warn("No question text for reservation, skipping")
		if rerr := s.reservations.ReleaseClaim(ctx, res.ID); rerr != nil {
			logger.Log.WithError(rerr).Warn("Failed to release reservation claim")
		}
		return nil
	}

	deliveryID := primitive.NewObjectID()
	channel, status := s.dispatch(pctx, res, questionText, deliveryID)

	delivery := &models.Delivery{
		ID:            deliveryID,
		UserID:        res.UserID,
		ReservationID: res.ID,
		QuestionText:  questionText,
		Channel:       channel,
		Status:        status,
		ScheduledFor:  scheduledFor(res, now),
		SentAt:        now,
	}
	if err := s.deliveries.CreateDelivery(pctx, delivery); err != nil {
		if rerr := s.reservations.ReleaseClaim(ctx, res.ID); rerr != nil {
			logger.Log.WithError(rerr).Warn("Failed to release reservation claim")
		}
		return err
	}

	// A failed advance must not leave the claim held, or the reservation
	// could never be claimed again. Released, it re-fires on the next
	// tick, which can duplicate the delivery.
	if err := s.advance(pctx, res, now); err != nil {
		if rerr := s.reservations.ReleaseClaim(ctx, res.ID); rerr != nil {
			logger.Log.WithError(rerr).Warn("Failed to release reservation claim")
		}
		return err
	}
	return nil
}

// dispatch picks the delivery channel from the user's settings and attempts
// delivery, returning the channel used and the resulting delivery status.
// Dispatch problems degrade the status, never abort the firing: the in-app
// inbox record is still written.
func (s *Scheduler) dispatch(ctx context.Context, res *models.QuestionReservation, questionText string, deliveryID primitive.ObjectID) (string, string) {
	if s.email != nil {
		settings, err := s.settings.GetSettings(ctx, res.UserID)
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to load settings, using push channel")
		} else if settings != nil && settings.NotificationChannel == models.DeliveryChannelEmail {
			return models.DeliveryChannelEmail, s.dispatchEmail(ctx, res.UserID, questionText)
		}
	}

	result, err := s.dispatcher.Dispatch(ctx, res.UserID, questionText, deliveryID, res.ID)
	if err != nil {
		logger.Log.WithError(err).WithField("reservation_id", res.ID.Hex()).Warn("Push fan-out failed")
		return models.DeliveryChannelFCM, models.DeliveryStatusFailed
	}
	return models.DeliveryChannelFCM, result.Status
}

func (s *Scheduler) dispatchEmail(ctx context.Context, userID primitive.ObjectID, questionText string) string {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil || user.Email == "" {
		logger.Log.WithField("user_id", userID.Hex()).Warn("No email address for EMAIL channel delivery")
		return models.DeliveryStatusFailed
	}
	if err := s.email(user.Email, notificationTitle, questionText); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Warn("Email delivery failed")
		return models.DeliveryStatusFailed
	}
	return models.DeliveryStatusSent
}

// advance moves a fired reservation to its terminal or next-occurrence state.
func (s *Scheduler) advance(ctx context.Context, res *models.QuestionReservation, firedAt time.Time) error {
	switch res.Type {
	case models.ReservationTypeFixed, models.ReservationTypeAIGenerated:
		if err := s.reservations.MarkProcessed(ctx, res.ID, firedAt); err != nil {
			return err
		}
		if res.Type == models.ReservationTypeFixed && res.QuestionID != nil && !res.QuestionID.IsZero() {
			if err := s.questions.SetQuestionStatus(ctx, *res.QuestionID, models.QuestionStatusDone); err != nil {
				logger.Log.WithError(err).WithField("question_id", res.QuestionID.Hex()).Warn("Failed to mark question done")
			}
		}
		return nil

	case models.ReservationTypeRecurring:
		// Advance from the later of lastRunAt and firedAt so the new
		// next_run_at always lands in the future; a stale lastRunAt would
		// recompute an occurrence that has already passed and re-fire the
		// reservation every tick.
		from := firedAt
		if res.LastRunAt != nil && res.LastRunAt.After(firedAt) {
			from = *res.LastRunAt
		}
		next := ComputeNextRun(res.CronExpression, from, res.Timezone)
		return s.reservations.AdvanceRecurring(ctx, res.ID, next, firedAt)

	default:
		return fmt.Errorf("unknown reservation type %q", res.Type)
	}
}

// scheduledFor is the time this firing was scheduled for, frozen onto the
// delivery record.
func scheduledFor(res *models.QuestionReservation, now time.Time) time.Time {
	if !res.NextRunAt.IsZero() {
		return res.NextRunAt
	}
	if res.TargetTime != nil && !res.TargetTime.IsZero() {
		return *res.TargetTime
	}
	return now
}
