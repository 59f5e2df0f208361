package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/push"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDispatchNoTokensStillSent(t *testing.T) {
	tokens := &fakeTokenStore{}
	sender := &fakeSender{}
	d := NewDispatcher(tokens, sender)

	result, err := d.Dispatch(context.Background(), primitive.NewObjectID(), "text", primitive.NewObjectID(), primitive.NewObjectID())

	assert.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusSent, result.Status)
	assert.Zero(t, result.Attempted)
	assert.Empty(t, sender.calls)
}

func TestDispatchAllTokensSucceed(t *testing.T) {
	userID := primitive.NewObjectID()
	tokens := &fakeTokenStore{tokens: []models.NotificationToken{
		{UserID: userID, Token: "tok-1"},
		{UserID: userID, Token: "tok-2"},
	}}
	sender := &fakeSender{}
	d := NewDispatcher(tokens, sender)

	result, err := d.Dispatch(context.Background(), userID, "text", primitive.NewObjectID(), primitive.NewObjectID())

	assert.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusSent, result.Status)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Sent)
	assert.Len(t, sender.calls, 2)
}

func TestDispatchAllTokensFailTransient(t *testing.T) {
	userID := primitive.NewObjectID()
	tokens := &fakeTokenStore{tokens: []models.NotificationToken{
		{UserID: userID, Token: "tok-1"},
		{UserID: userID, Token: "tok-2"},
	}}
	sender := &fakeSender{errs: map[string]error{
		"tok-1": errors.New("timeout"),
		"tok-2": errors.New("timeout"),
	}}
	d := NewDispatcher(tokens, sender)

	result, err := d.Dispatch(context.Background(), userID, "text", primitive.NewObjectID(), primitive.NewObjectID())

	assert.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusFailed, result.Status)
	assert.Zero(t, result.Sent)
	// Transient failures never prune tokens.
	assert.Empty(t, tokens.deleted)
}

func TestDispatchPrunesDeadTokens(t *testing.T) {
	userID := primitive.NewObjectID()
	tokens := &fakeTokenStore{tokens: []models.NotificationToken{
		{UserID: userID, Token: "dead"},
		{UserID: userID, Token: "alive"},
	}}
	sender := &fakeSender{errs: map[string]error{
		"dead": fmt.Errorf("%w: gone", push.ErrTokenNotRegistered),
	}}
	d := NewDispatcher(tokens, sender)

	result, err := d.Dispatch(context.Background(), userID, "text", primitive.NewObjectID(), primitive.NewObjectID())

	assert.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusSent, result.Status)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, []string{"dead"}, tokens.deleted)

	remaining, _ := tokens.GetTokens(context.Background(), userID)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "alive", remaining[0].Token)
}

func TestDispatchOnlyDeadTokensFails(t *testing.T) {
	userID := primitive.NewObjectID()
	tokens := &fakeTokenStore{tokens: []models.NotificationToken{
		{UserID: userID, Token: "dead"},
	}}
	sender := &fakeSender{errs: map[string]error{
		"dead": fmt.Errorf("%w: gone", push.ErrTokenNotRegistered),
	}}
	d := NewDispatcher(tokens, sender)

	result, err := d.Dispatch(context.Background(), userID, "text", primitive.NewObjectID(), primitive.NewObjectID())

	assert.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusFailed, result.Status)
	assert.Equal(t, []string{"dead"}, tokens.deleted)
}
