package services

import (
	"context"
	"fmt"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/internal/repository"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryService exposes read and acknowledge operations over the
// scheduler's delivery records.
type DeliveryService struct {
	repo *repository.DeliveryRepository
}

// NewDeliveryService creates a new instance of DeliveryService.
func NewDeliveryService(repo *repository.DeliveryRepository) *DeliveryService {
	return &DeliveryService{repo: repo}
}

// GetDelivery retrieves a delivery by its ID.
func (s *DeliveryService) GetDelivery(ctx context.Context, id string) (*models.Delivery, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery ID: %v", err)
	}

	delivery, err := s.repo.GetDeliveryByID(ctx, objID)
	if err != nil {
		logger.Log.WithField("delivery_id", id).WithError(err).Error("Failed to get delivery")
		return nil, fmt.Errorf("failed to get delivery: %v", err)
	}
	return delivery, nil
}

// ListDeliveries returns the user's deliveries, newest first.
func (s *DeliveryService) ListDeliveries(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Delivery, error) {
	if limit <= 0 {
		limit = 50
	}

	deliveries, err := s.repo.GetDeliveries(ctx, userID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list deliveries")
		return nil, fmt.Errorf("failed to list deliveries: %v", err)
	}
	return deliveries, nil
}

// AckDelivery marks a delivery as acknowledged by its owner.
func (s *DeliveryService) AckDelivery(ctx context.Context, id string, userID primitive.ObjectID) (*models.Delivery, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery ID: %v", err)
	}

	delivery, err := s.repo.GetDeliveryByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %v", err)
	}
	if delivery.UserID != userID {
		return nil, fmt.Errorf("delivery belongs to another user")
	}

	if err := s.repo.AckDelivery(ctx, objID); err != nil {
		logger.Log.WithField("delivery_id", id).WithError(err).Error("Failed to ack delivery")
		return nil, fmt.Errorf("failed to ack delivery: %v", err)
	}

	delivery.Status = models.DeliveryStatusAcked
	return delivery, nil
}
