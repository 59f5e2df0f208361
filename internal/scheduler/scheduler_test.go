package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type schedulerFixture struct {
	sched        *Scheduler
	reservations *fakeReservationStore
	questions    *fakeQuestionStore
	deliveries   *fakeDeliveryStore
	tokens       *fakeTokenStore
	settings     *fakeSettingsStore
	users        *fakeUserStore
	sentEmails   *[]string
}

func newSchedulerFixture(t *testing.T, reservations *fakeReservationStore, questions *fakeQuestionStore, metas *fakeMetaStore, userID primitive.ObjectID) *schedulerFixture {
	t.Helper()

	tokens := &fakeTokenStore{tokens: []models.NotificationToken{
		{UserID: userID, Token: "tok-1"},
	}}
	deliveries := &fakeDeliveryStore{}
	settings := &fakeSettingsStore{}
	users := &fakeUserStore{users: map[primitive.ObjectID]*models.User{
		userID: {ID: userID, Email: "user@example.com"},
	}}

	var sentEmails []string
	emailFn := func(to, subject, body string) error {
		sentEmails = append(sentEmails, to)
		return nil
	}

	resolver := NewResolver(questions, metas, &fakeContextStore{}, &fakeGenerator{text: "generated question"})
	dispatcher := NewDispatcher(tokens, &fakeSender{})

	sched := New(reservations, questions, deliveries, settings, users, resolver, dispatcher, emailFn, 50)

	return &schedulerFixture{
		sched:        sched,
		reservations: reservations,
		questions:    questions,
		deliveries:   deliveries,
		tokens:       tokens,
		settings:     settings,
		users:        users,
		sentEmails:   &sentEmails,
	}
}

func (f *schedulerFixture) tickAt(t *testing.T, now time.Time) {
	t.Helper()
	f.sched.now = func() time.Time { return now }
	require.NoError(t, f.sched.Tick(context.Background()))
}

func TestTickFixedReservationFiresOnce(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
		TargetTime: &target,
		NextRunAt:  target,
		Timezone:   "UTC",
	}
	questions := newFakeQuestionStore(&models.Question{
		ID:      questionID,
		UserID:  userID,
		Content: "Did you call your parents this week?",
		Status:  models.QuestionStatusPublish,
	})
	f := newSchedulerFixture(t, newFakeReservationStore(res), questions, newFakeMetaStore(), userID)

	now := target.Add(30 * time.Second)
	f.tickAt(t, now)

	require.Len(t, f.deliveries.deliveries, 1)
	delivery := f.deliveries.deliveries[0]
	assert.Equal(t, "Did you call your parents this week?", delivery.QuestionText)
	assert.Equal(t, models.DeliveryChannelFCM, delivery.Channel)
	assert.Equal(t, models.DeliveryStatusSent, delivery.Status)
	assert.Equal(t, target, delivery.ScheduledFor)
	assert.Equal(t, now, delivery.SentAt)
	assert.Equal(t, res.ID, delivery.ReservationID)

	stored := f.reservations.get(res.ID)
	assert.True(t, stored.IsProcessed)
	assert.False(t, stored.Processing)

	question, _ := questions.GetQuestionByID(context.Background(), questionID)
	assert.Equal(t, models.QuestionStatusDone, question.Status)

	// Second tick: nothing left to fire.
	f.tickAt(t, now.Add(time.Minute))
	assert.Len(t, f.deliveries.deliveries, 1)
}

func TestTickRecurringAdvancesStrictly(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		QuestionID:     &questionID,
		Type:           models.ReservationTypeRecurring,
		CronExpression: "0 9 * * *",
		NextRunAt:      first,
		Timezone:       "UTC",
	}
	questions := newFakeQuestionStore(&models.Question{
		ID:      questionID,
		UserID:  userID,
		Content: "How is your energy this morning?",
		Status:  models.QuestionStatusPublish,
	})
	f := newSchedulerFixture(t, newFakeReservationStore(res), questions, newFakeMetaStore(), userID)

	prev := first
	for day := 0; day < 3; day++ {
		firedAt := first.AddDate(0, 0, day).Add(30 * time.Second)
		f.tickAt(t, firedAt)

		stored := f.reservations.get(res.ID)
		assert.False(t, stored.IsProcessed, "recurring reservation must never terminate")
		assert.False(t, stored.Processing)
		assert.True(t, stored.NextRunAt.After(prev), "next_run_at must strictly advance")
		assert.Equal(t, firedAt, *stored.LastRunAt)
		prev = stored.NextRunAt
	}
	assert.Len(t, f.deliveries.deliveries, 3)

	// Recurring firings never mark the question done.
	question, _ := questions.GetQuestionByID(context.Background(), questionID)
	assert.Equal(t, models.QuestionStatusPublish, question.Status)
}

func TestTickSkipsReservationWithMissingQuestion(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
		TargetTime: &target,
		NextRunAt:  target,
		Timezone:   "UTC",
	}
	f := newSchedulerFixture(t, newFakeReservationStore(res), newFakeQuestionStore(), newFakeMetaStore(), userID)

	f.tickAt(t, target.Add(time.Minute))

	assert.Empty(t, f.deliveries.deliveries)

	// Unclaimed and unprocessed: retried on a later tick.
	stored := f.reservations.get(res.ID)
	assert.False(t, stored.IsProcessed)
	assert.False(t, stored.Processing)
}

func TestTickSkipsAlreadyClaimedReservation(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
		TargetTime: &target,
		NextRunAt:  target,
		Processing: true,
		Timezone:   "UTC",
	}
	questions := newFakeQuestionStore(&models.Question{ID: questionID, Content: "q"})
	f := newSchedulerFixture(t, newFakeReservationStore(res), questions, newFakeMetaStore(), userID)

	f.tickAt(t, target.Add(time.Minute))

	assert.Empty(t, f.deliveries.deliveries)
	assert.False(t, f.reservations.get(res.ID).IsProcessed)
}

func TestTickFutureReservationNotFired(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
		TargetTime: &target,
		NextRunAt:  target,
		Timezone:   "UTC",
	}
	questions := newFakeQuestionStore(&models.Question{ID: questionID, Content: "q"})
	f := newSchedulerFixture(t, newFakeReservationStore(res), questions, newFakeMetaStore(), userID)

	f.tickAt(t, target.Add(-time.Minute))

	assert.Empty(t, f.deliveries.deliveries)
}

func TestTickEmailChannelPreferred(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
		TargetTime: &target,
		NextRunAt:  target,
		Timezone:   "UTC",
	}
	questions := newFakeQuestionStore(&models.Question{
		ID:      questionID,
		UserID:  userID,
		Content: "What did you learn today?",
	})
	f := newSchedulerFixture(t, newFakeReservationStore(res), questions, newFakeMetaStore(), userID)
	f.settings.settings = map[primitive.ObjectID]*models.LifeQuestionSettings{
		userID: {UserID: userID, NotificationChannel: models.DeliveryChannelEmail},
	}

	f.tickAt(t, target.Add(time.Minute))

	require.Len(t, f.deliveries.deliveries, 1)
	assert.Equal(t, models.DeliveryChannelEmail, f.deliveries.deliveries[0].Channel)
	assert.Equal(t, models.DeliveryStatusSent, f.deliveries.deliveries[0].Status)
	assert.Equal(t, []string{"user@example.com"}, *f.sentEmails)
}

func TestTickDeliveryWriteFailureReleasesClaim(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
		TargetTime: &target,
		NextRunAt:  target,
		Timezone:   "UTC",
	}
	questions := newFakeQuestionStore(&models.Question{ID: questionID, UserID: userID, Content: "q"})
	f := newSchedulerFixture(t, newFakeReservationStore(res), questions, newFakeMetaStore(), userID)
	f.deliveries.err = errors.New("write failed")

	f.tickAt(t, target.Add(time.Minute))

	stored := f.reservations.get(res.ID)
	assert.False(t, stored.IsProcessed)
	assert.False(t, stored.Processing)
}

type advanceFailStore struct {
	*fakeReservationStore
	failures int
}

func (s *advanceFailStore) MarkProcessed(ctx context.Context, id primitive.ObjectID, firedAt time.Time) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("write failed")
	}
	return s.fakeReservationStore.MarkProcessed(ctx, id, firedAt)
}

func TestTickAdvanceFailureReleasesClaimForRetry(t *testing.T) {
	userID := primitive.NewObjectID()
	questionID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
		TargetTime: &target,
		NextRunAt:  target,
		Timezone:   "UTC",
	}
	inner := newFakeReservationStore(res)
	store := &advanceFailStore{fakeReservationStore: inner, failures: 1}
	questions := newFakeQuestionStore(&models.Question{ID: questionID, UserID: userID, Content: "q"})
	deliveries := &fakeDeliveryStore{}
	tokens := &fakeTokenStore{tokens: []models.NotificationToken{{UserID: userID, Token: "tok-1"}}}
	resolver := NewResolver(questions, newFakeMetaStore(), &fakeContextStore{}, &fakeGenerator{text: "g"})
	dispatcher := NewDispatcher(tokens, &fakeSender{})
	sched := New(store, questions, deliveries, &fakeSettingsStore{}, &fakeUserStore{}, resolver, dispatcher, nil, 50)

	sched.now = func() time.Time { return target.Add(time.Minute) }
	require.NoError(t, sched.Tick(context.Background()))

	// Advance failed after the delivery write: unprocessed, but the claim
	// must be free again so the reservation is not wedged forever.
	stored := inner.get(res.ID)
	assert.False(t, stored.IsProcessed)
	assert.False(t, stored.Processing)
	require.Len(t, deliveries.deliveries, 1)

	// With the store healthy again the next tick completes the firing.
	sched.now = func() time.Time { return target.Add(2 * time.Minute) }
	require.NoError(t, sched.Tick(context.Background()))

	stored = inner.get(res.ID)
	assert.True(t, stored.IsProcessed)
	assert.False(t, stored.Processing)
	assert.Len(t, deliveries.deliveries, 2)
}

func TestTickGeneratedReservationUsesMetaQuestion(t *testing.T) {
	userID := primitive.NewObjectID()
	metaID := primitive.NewObjectID()
	target := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	res := &models.QuestionReservation{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		MetaQuestionID: &metaID,
		Type:           models.ReservationTypeAIGenerated,
		TargetTime:     &target,
		NextRunAt:      target,
		Timezone:       "UTC",
	}
	metas := newFakeMetaStore(&models.MetaQuestion{
		ID:         metaID,
		UserID:     userID,
		BasePrompt: "Ask about sleep",
	})
	f := newSchedulerFixture(t, newFakeReservationStore(res), newFakeQuestionStore(), metas, userID)

	f.tickAt(t, target.Add(time.Minute))

	require.Len(t, f.deliveries.deliveries, 1)
	assert.Equal(t, "generated question", f.deliveries.deliveries[0].QuestionText)
	assert.True(t, f.reservations.get(res.ID).IsProcessed)
}
