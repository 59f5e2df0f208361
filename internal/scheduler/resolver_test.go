package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveTextReturnsQuestionContent(t *testing.T) {
	questionID := primitive.NewObjectID()
	questions := newFakeQuestionStore(&models.Question{
		ID:      questionID,
		Content: "What made today meaningful?",
	})
	resolver := NewResolver(questions, newFakeMetaStore(), &fakeContextStore{}, &fakeGenerator{})

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
	}

	assert.Equal(t, "What made today meaningful?", resolver.ResolveText(context.Background(), res))
}

func TestResolveTextMissingQuestionReturnsEmpty(t *testing.T) {
	questionID := primitive.NewObjectID()
	resolver := NewResolver(newFakeQuestionStore(), newFakeMetaStore(), &fakeContextStore{}, &fakeGenerator{})

	res := &models.QuestionReservation{
		ID:         primitive.NewObjectID(),
		QuestionID: &questionID,
		Type:       models.ReservationTypeFixed,
	}

	assert.Empty(t, resolver.ResolveText(context.Background(), res))
}

func TestResolveTextGeneratesFromMeta(t *testing.T) {
	metaID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	metas := newFakeMetaStore(&models.MetaQuestion{
		ID:         metaID,
		UserID:     userID,
		BasePrompt: "Ask about energy levels",
	})
	contexts := &fakeContextStore{contexts: []models.QuestionContext{
		{Summary: "Slept badly this week"},
		{Summary: "Started morning walks"},
	}}
	gen := &fakeGenerator{text: "How did your morning walk affect your energy today?"}
	resolver := NewResolver(newFakeQuestionStore(), metas, contexts, gen)

	res := &models.QuestionReservation{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		MetaQuestionID: &metaID,
		Type:           models.ReservationTypeAIGenerated,
	}

	text := resolver.ResolveText(context.Background(), res)

	assert.Equal(t, "How did your morning walk affect your energy today?", text)
	assert.Contains(t, gen.lastPrompt, "Ask about energy levels")
	assert.Contains(t, gen.lastPrompt, "Slept badly this week")
	assert.Contains(t, gen.lastPrompt, "Started morning walks")
}

func TestResolveTextGenerationFailureFallsBackToBasePrompt(t *testing.T) {
	metaID := primitive.NewObjectID()
	metas := newFakeMetaStore(&models.MetaQuestion{
		ID:         metaID,
		BasePrompt: "What are you grateful for?",
	})
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	resolver := NewResolver(newFakeQuestionStore(), metas, &fakeContextStore{}, gen)

	res := &models.QuestionReservation{
		ID:             primitive.NewObjectID(),
		MetaQuestionID: &metaID,
		Type:           models.ReservationTypeAIGenerated,
	}

	assert.Equal(t, "What are you grateful for?", resolver.ResolveText(context.Background(), res))
}

func TestResolveTextContextFailureStillGenerates(t *testing.T) {
	metaID := primitive.NewObjectID()
	metas := newFakeMetaStore(&models.MetaQuestion{
		ID:         metaID,
		BasePrompt: "Reflect on the week",
	})
	contexts := &fakeContextStore{err: errors.New("store down")}
	gen := &fakeGenerator{text: "Looking back, what stood out this week?"}
	resolver := NewResolver(newFakeQuestionStore(), metas, contexts, gen)

	res := &models.QuestionReservation{
		ID:             primitive.NewObjectID(),
		MetaQuestionID: &metaID,
		Type:           models.ReservationTypeAIGenerated,
	}

	text := resolver.ResolveText(context.Background(), res)

	assert.Equal(t, "Looking back, what stood out this week?", text)
	assert.Contains(t, gen.lastPrompt, "No recent context available")
}

func TestResolveTextNoTargetReturnsEmpty(t *testing.T) {
	resolver := NewResolver(newFakeQuestionStore(), newFakeMetaStore(), &fakeContextStore{}, &fakeGenerator{})

	res := &models.QuestionReservation{ID: primitive.NewObjectID()}

	assert.Empty(t, resolver.ResolveText(context.Background(), res))
}

func TestResolveTextNilGeneratorUsesBasePrompt(t *testing.T) {
	metaID := primitive.NewObjectID()
	metas := newFakeMetaStore(&models.MetaQuestion{
		ID:         metaID,
		BasePrompt: "How was your day?",
	})
	resolver := NewResolver(newFakeQuestionStore(), metas, &fakeContextStore{}, nil)

	res := &models.QuestionReservation{
		ID:             primitive.NewObjectID(),
		MetaQuestionID: &metaID,
		Type:           models.ReservationTypeAIGenerated,
	}

	assert.Equal(t, "How was your day?", resolver.ResolveText(context.Background(), res))
}
