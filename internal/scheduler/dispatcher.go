package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"github.com/lifequestapp/lifequest-server/pkg/push"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// notificationTitle is the push headline for every life question.
const notificationTitle = "Life Question"

// DispatchResult reports the outcome of one push fan-out.
type DispatchResult struct {
	Attempted int
	Sent      int
	Status    string
}

// Dispatcher fans a question out to every registered device token and prunes
// tokens the provider reports as dead.
type Dispatcher struct {
	tokens TokenStore
	sender push.Sender
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(tokens TokenStore, sender push.Sender) *Dispatcher {
	return &Dispatcher{tokens: tokens, sender: sender}
}

// Dispatch attempts delivery to each of the user's tokens independently and
// waits for every attempt before returning. A user with no tokens still gets
// a SENT result: the in-app inbox satisfies delivery on its own. FAILED is
// returned only when tokens existed and every attempt failed.
func (d *Dispatcher) Dispatch(ctx context.Context, userID primitive.ObjectID, questionText string, deliveryID, reservationID primitive.ObjectID) (*DispatchResult, error) {
	tokens, err := d.tokens.GetTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		logger.Log.WithField("user_id", userID.Hex()).Warn("No notification tokens, delivery goes to in-app inbox only")
		return &DispatchResult{Status: models.DeliveryStatusSent}, nil
	}

	data := map[string]string{
		"deliveryId":    deliveryID.Hex(),
		"reservationId": reservationID.Hex(),
		"questionText":  questionText,
		"type":          "life_question",
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)

	for _, token := range tokens {
		wg.Add(1)
		go func(token models.NotificationToken) {
			defer wg.Done()

			err := d.sender.Send(ctx, token.Token, notificationTitle, questionText, data)
			if err == nil {
				mu.Lock()
				sent++
				mu.Unlock()
				return
			}

			if errors.Is(err, push.ErrTokenNotRegistered) {
				logger.Log.WithField("user_id", userID.Hex()).Info("Pruning dead notification token")
				if derr := d.tokens.DeleteToken(ctx, userID, token.Token); derr != nil {
					logger.Log.WithError(derr).Warn("Failed to prune dead token")
				}
				return
			}

			logger.Log.WithError(err).WithField("user_id", userID.Hex()).Warn("Push delivery failed")
		}(token)
	}
	wg.Wait()

	result := &DispatchResult{Attempted: len(tokens), Sent: sent, Status: models.DeliveryStatusFailed}
	if sent > 0 {
		result.Status = models.DeliveryStatusSent
	}
	return result, nil
}
