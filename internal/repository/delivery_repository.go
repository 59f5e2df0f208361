package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeliveryRepository handles database operations for question deliveries.
type DeliveryRepository struct {
	collection *mongo.Collection
}

// NewDeliveryRepository creates a new instance of DeliveryRepository.
func NewDeliveryRepository(db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{
		collection: db.Collection("deliveries"),
	}
}

// CreateDelivery inserts exactly one delivery record for a firing. The
// caller supplies the ID so the push payload and the stored record agree.
func (r *DeliveryRepository) CreateDelivery(ctx context.Context, delivery *models.Delivery) error {
	delivery.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, delivery); err != nil {
		logger.Log.WithError(err).Error("Failed to insert delivery")
		return fmt.Errorf("failed to create delivery: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"delivery_id": delivery.ID.Hex(),
		"status":      delivery.Status,
	}).Info("Delivery recorded")
	return nil
}

// GetDeliveryByID fetches a delivery by its ID.
func (r *DeliveryRepository) GetDeliveryByID(ctx context.Context, id primitive.ObjectID) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&delivery)
	if err != nil {
		logger.Log.WithError(err).WithField("delivery_id", id.Hex()).Warn("Failed to find delivery")
		return nil, fmt.Errorf("failed to find delivery: %v", err)
	}
	return &delivery, nil
}

// GetDeliveries fetches a user's deliveries, newest first.
func (r *DeliveryRepository) GetDeliveries(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Delivery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deliveries: %v", err)
	}
	defer cursor.Close(ctx)

	var deliveries []models.Delivery
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, fmt.Errorf("failed to decode deliveries: %v", err)
	}
	return deliveries, nil
}

// AckDelivery transitions a delivery from SENT to ACKED.
func (r *DeliveryRepository) AckDelivery(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"status": models.DeliveryStatusAcked}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.Log.WithError(err).WithField("delivery_id", id.Hex()).Error("Failed to ack delivery")
		return fmt.Errorf("failed to ack delivery: %v", err)
	}
	return nil
}
