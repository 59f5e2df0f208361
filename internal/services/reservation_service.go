package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/ai"
	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/internal/scheduler"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const slotGranularity = 5 * time.Minute

// ScheduleParser turns a natural-language scheduling request into a concrete
// time window. Implemented by ai.Client.
type ScheduleParser interface {
	ParseScheduleWindow(ctx context.Context, request, timezone string, now time.Time) (*ai.ScheduleWindow, error)
}

// ScheduleProposal is the preview returned for a natural-language schedule
// request before the user confirms it.
type ScheduleProposal struct {
	Start time.Time   `json:"start"`
	End   time.Time   `json:"end"`
	Slots []time.Time `json:"slots"`
}

// ReservationService encapsulates the business logic for question
// reservations.
type ReservationService struct {
	repo         *repository.ReservationRepository
	questionRepo *repository.QuestionRepository
	metaRepo     *repository.MetaQuestionRepository
	settingsRepo *repository.SettingsRepository
	parser       ScheduleParser
	now          func() time.Time
}

// NewReservationService creates a new instance of ReservationService.
// parser may be nil when AI scheduling is disabled.
func NewReservationService(
	repo *repository.ReservationRepository,
	questionRepo *repository.QuestionRepository,
	metaRepo *repository.MetaQuestionRepository,
	settingsRepo *repository.SettingsRepository,
	parser ScheduleParser,
) *ReservationService {
	return &ReservationService{
		repo:         repo,
		questionRepo: questionRepo,
		metaRepo:     metaRepo,
		settingsRepo: settingsRepo,
		parser:       parser,
		now:          time.Now,
	}
}

// userTimezone returns the timezone from the user's settings, defaulting to
// UTC when no settings document exists.
func (s *ReservationService) userTimezone(ctx context.Context, userID primitive.ObjectID) string {
	settings, err := s.settingsRepo.GetSettings(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to load settings for timezone snapshot")
		return "UTC"
	}
	if settings == nil || settings.Timezone == "" {
		return "UTC"
	}
	return settings.Timezone
}

// CreateReservation validates the reservation, snapshots the user's
// timezone, computes the initial next_run_at and stores it.
func (s *ReservationService) CreateReservation(ctx context.Context, res *models.QuestionReservation) (*models.QuestionReservation, error) {
	if err := res.Validate(); err != nil {
		logger.Log.WithError(err).Warn("Reservation failed validation")
		return nil, err
	}

	if err := s.checkTarget(ctx, res); err != nil {
		return nil, err
	}

	if res.Timezone == "" {
		res.Timezone = s.userTimezone(ctx, res.UserID)
	}

	res.IsProcessed = false
	res.Processing = false
	res.LastRunAt = nil

	switch res.Type {
	case models.ReservationTypeFixed, models.ReservationTypeAIGenerated:
		res.NextRunAt = res.TargetTime.UTC()
	case models.ReservationTypeRecurring:
		res.NextRunAt = scheduler.ComputeNextRun(res.CronExpression, s.now(), res.Timezone)
	}

	created, err := s.repo.CreateReservation(ctx, res)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create reservation")
		return nil, fmt.Errorf("failed to create reservation: %v", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"reservation_id": created.ID.Hex(),
		"type":           created.Type,
		"next_run_at":    created.NextRunAt,
	}).Info("Reservation created")
	return created, nil
}

// checkTarget verifies the referenced question or meta-question exists and
// belongs to the reservation's user.
func (s *ReservationService) checkTarget(ctx context.Context, res *models.QuestionReservation) error {
	if res.QuestionID != nil && !res.QuestionID.IsZero() {
		question, err := s.questionRepo.GetQuestionByID(ctx, *res.QuestionID)
		if err != nil {
			return fmt.Errorf("referenced question not found: %v", err)
		}
		if question.UserID != res.UserID {
			return fmt.Errorf("referenced question belongs to another user")
		}
		return nil
	}

	meta, err := s.metaRepo.GetMetaQuestionByID(ctx, *res.MetaQuestionID)
	if err != nil {
		return fmt.Errorf("referenced meta question not found: %v", err)
	}
	if meta.UserID != res.UserID {
		return fmt.Errorf("referenced meta question belongs to another user")
	}
	return nil
}

// GetReservation retrieves a reservation by its ID.
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*models.QuestionReservation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID: %v", err)
	}

	res, err := s.repo.GetReservationByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("reservation_id", id).WithError(err).Error("Failed to get reservation")
		return nil, fmt.Errorf("failed to get reservation: %v", err)
	}
	return res, nil
}

// ListReservations returns all reservations owned by the user.
func (s *ReservationService) ListReservations(ctx context.Context, userID primitive.ObjectID) ([]models.QuestionReservation, error) {
	reservations, err := s.repo.GetReservations(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list reservations")
		return nil, fmt.Errorf("failed to list reservations: %v", err)
	}
	return reservations, nil
}

// UpdateReservation replaces the schedule fields of an unprocessed
// reservation and recomputes next_run_at.
func (s *ReservationService) UpdateReservation(ctx context.Context, id string, update *models.QuestionReservation) (*models.QuestionReservation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID: %v", err)
	}

	existing, err := s.repo.GetReservationByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %v", err)
	}
	if existing.IsProcessed {
		return nil, fmt.Errorf("reservation already processed")
	}

	if update.TargetTime != nil {
		existing.TargetTime = update.TargetTime
	}
	if update.CronExpression != "" {
		existing.CronExpression = update.CronExpression
	}
	if update.Timezone != "" {
		existing.Timezone = update.Timezone
	}

	if err := existing.Validate(); err != nil {
		return nil, err
	}

	switch existing.Type {
	case models.ReservationTypeFixed, models.ReservationTypeAIGenerated:
		existing.NextRunAt = existing.TargetTime.UTC()
	case models.ReservationTypeRecurring:
		existing.NextRunAt = scheduler.ComputeNextRun(existing.CronExpression, s.now(), existing.Timezone)
	}

	updated, err := s.repo.UpdateReservation(ctx, objID, existing)
	if err != nil {
		logger.Log.WithField("reservation_id", id).WithError(err).Error("Failed to update reservation")
		return nil, fmt.Errorf("failed to update reservation: %v", err)
	}
	return updated, nil
}

// DeleteReservation removes a reservation.
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid reservation ID: %v", err)
	}

	if err := s.repo.DeleteReservation(ctx, objID); err != nil {
		logger.Log.WithField("reservation_id", id).WithError(err).Error("Failed to delete reservation")
		return fmt.Errorf("failed to delete reservation: %v", err)
	}
	return nil
}

// ParseSchedulePrompt interprets a natural-language scheduling request and
// proposes concrete delivery slots inside the parsed window. The proposal is
// not persisted; the client confirms it via ConfirmSchedule.
func (s *ReservationService) ParseSchedulePrompt(ctx context.Context, userID primitive.ObjectID, request string) (*ScheduleProposal, error) {
	if s.parser == nil {
		return nil, fmt.Errorf("AI scheduling is not configured")
	}
	if request == "" {
		return nil, fmt.Errorf("schedule request is required")
	}

	tz := s.userTimezone(ctx, userID)

	window, err := s.parser.ParseScheduleWindow(ctx, request, tz, s.now())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to parse schedule request")
		return nil, fmt.Errorf("failed to parse schedule request: %v", err)
	}
	if !window.End.After(window.Start) {
		return nil, fmt.Errorf("parsed schedule window is empty")
	}

	slots := generateSlots(window.Start, window.End, window.Count)
	if len(slots) == 0 {
		return nil, fmt.Errorf("schedule window too narrow for any slot")
	}

	return &ScheduleProposal{Start: window.Start, End: window.End, Slots: slots}, nil
}

// generateSlots picks up to count distinct delivery times inside [start, end),
// rounded to five-minute marks. Random picks come first; if the window is too
// crowded to satisfy count randomly, the remainder is filled evenly spaced.
func generateSlots(start, end time.Time, count int) []time.Time {
	window := end.Sub(start)
	if window <= 0 || count <= 0 {
		return nil
	}

	seen := make(map[int64]struct{}, count)
	slots := make([]time.Time, 0, count)

	add := func(t time.Time) {
		t = t.Round(slotGranularity)
		if t.Before(start) || !t.Before(end) {
			return
		}
		key := t.Unix()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		slots = append(slots, t)
	}

	for attempts := 0; attempts < count*10 && len(slots) < count; attempts++ {
		add(start.Add(time.Duration(rand.Int63n(int64(window)))))
	}

	if len(slots) < count {
		step := window / time.Duration(count)
		for i := 0; i < count && len(slots) < count; i++ {
			add(start.Add(step * time.Duration(i)))
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	if len(slots) > count {
		slots = slots[:count]
	}
	return slots
}

// ConfirmSchedule fans a confirmed proposal out into one AI_GENERATED
// reservation per slot, all targeting the same meta-question.
func (s *ReservationService) ConfirmSchedule(ctx context.Context, userID primitive.ObjectID, metaQuestionID string, slots []time.Time) ([]*models.QuestionReservation, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("at least one slot is required")
	}

	metaID, err := primitive.ObjectIDFromHex(metaQuestionID)
	if err != nil {
		return nil, fmt.Errorf("invalid meta question ID: %v", err)
	}

	meta, err := s.metaRepo.GetMetaQuestionByID(ctx, metaID)
	if err != nil {
		return nil, fmt.Errorf("meta question not found: %v", err)
	}
	if meta.UserID != userID {
		return nil, fmt.Errorf("meta question belongs to another user")
	}

	tz := s.userTimezone(ctx, userID)

	reservations := make([]*models.QuestionReservation, 0, len(slots))
	for _, slot := range slots {
		target := slot.UTC()
		res := &models.QuestionReservation{
			UserID:         userID,
			MetaQuestionID: &metaID,
			Type:           models.ReservationTypeAIGenerated,
			TargetTime:     &target,
			NextRunAt:      target,
			Timezone:       tz,
		}
		if err := res.Validate(); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	if err := s.repo.CreateReservations(ctx, reservations); err != nil {
		logger.Log.WithError(err).Error("Failed to create generated reservations")
		return nil, fmt.Errorf("failed to create reservations: %v", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"meta_question_id": metaQuestionID,
		"count":            len(reservations),
	}).Info("Generated schedule confirmed")
	return reservations, nil
}
