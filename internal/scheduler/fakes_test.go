package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes backing the scheduler tests.

type fakeReservationStore struct {
	mu           sync.Mutex
	reservations map[primitive.ObjectID]*models.QuestionReservation
}

func newFakeReservationStore(reservations ...*models.QuestionReservation) *fakeReservationStore {
	s := &fakeReservationStore{reservations: make(map[primitive.ObjectID]*models.QuestionReservation)}
	for _, res := range reservations {
		s.reservations[res.ID] = res
	}
	return s
}

func (s *fakeReservationStore) FindDue(ctx context.Context, now time.Time, limit int64) ([]models.QuestionReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []models.QuestionReservation
	for _, res := range s.reservations {
		if !res.IsProcessed && !res.NextRunAt.After(now) {
			due = append(due, *res)
		}
		if int64(len(due)) == limit {
			break
		}
	}
	return due, nil
}

func (s *fakeReservationStore) ClaimDue(ctx context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok || res.IsProcessed || res.Processing {
		return false, nil
	}
	res.Processing = true
	return true, nil
}

func (s *fakeReservationStore) ReleaseClaim(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res, ok := s.reservations[id]; ok {
		res.Processing = false
	}
	return nil
}

func (s *fakeReservationStore) MarkProcessed(ctx context.Context, id primitive.ObjectID, firedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	res.IsProcessed = true
	res.Processing = false
	fired := firedAt
	res.LastRunAt = &fired
	return nil
}

func (s *fakeReservationStore) AdvanceRecurring(ctx context.Context, id primitive.ObjectID, nextRunAt, firedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	res.NextRunAt = nextRunAt
	res.Processing = false
	fired := firedAt
	res.LastRunAt = &fired
	return nil
}

func (s *fakeReservationStore) get(id primitive.ObjectID) *models.QuestionReservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}

type fakeQuestionStore struct {
	mu        sync.Mutex
	questions map[primitive.ObjectID]*models.Question
}

func newFakeQuestionStore(questions ...*models.Question) *fakeQuestionStore {
	s := &fakeQuestionStore{questions: make(map[primitive.ObjectID]*models.Question)}
	for _, q := range questions {
		s.questions[q.ID] = q
	}
	return s
}

func (s *fakeQuestionStore) GetQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, errors.New("question not found")
	}
	return q, nil
}

func (s *fakeQuestionStore) SetQuestionStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return errors.New("question not found")
	}
	q.Status = status
	return nil
}

type fakeMetaStore struct {
	metas map[primitive.ObjectID]*models.MetaQuestion
}

func newFakeMetaStore(metas ...*models.MetaQuestion) *fakeMetaStore {
	s := &fakeMetaStore{metas: make(map[primitive.ObjectID]*models.MetaQuestion)}
	for _, m := range metas {
		s.metas[m.ID] = m
	}
	return s
}

func (s *fakeMetaStore) GetMetaQuestionByID(ctx context.Context, id primitive.ObjectID) (*models.MetaQuestion, error) {
	m, ok := s.metas[id]
	if !ok {
		return nil, errors.New("meta question not found")
	}
	return m, nil
}

type fakeContextStore struct {
	contexts []models.QuestionContext
	err      error
}

func (s *fakeContextStore) GetRecentContexts(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.QuestionContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	if int64(len(s.contexts)) > limit {
		return s.contexts[:limit], nil
	}
	return s.contexts, nil
}

type fakeGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.text, g.err
}

type fakeTokenStore struct {
	mu      sync.Mutex
	tokens  []models.NotificationToken
	deleted []string
}

func (s *fakeTokenStore) GetTokens(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.NotificationToken
	for _, t := range s.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTokenStore) DeleteToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, token)
	kept := s.tokens[:0]
	for _, t := range s.tokens {
		if t.UserID != userID || t.Token != token {
			kept = append(kept, t)
		}
	}
	s.tokens = kept
	return nil
}

type fakeSender struct {
	mu    sync.Mutex
	errs  map[string]error
	calls []string
}

func (s *fakeSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, token)
	return s.errs[token]
}

type fakeDeliveryStore struct {
	mu         sync.Mutex
	deliveries []*models.Delivery
	err        error
}

func (s *fakeDeliveryStore) CreateDelivery(ctx context.Context, delivery *models.Delivery) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, delivery)
	return nil
}

type fakeSettingsStore struct {
	settings map[primitive.ObjectID]*models.LifeQuestionSettings
}

func (s *fakeSettingsStore) GetSettings(ctx context.Context, userID primitive.ObjectID) (*models.LifeQuestionSettings, error) {
	if s.settings == nil {
		return nil, nil
	}
	return s.settings[userID], nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (s *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}
