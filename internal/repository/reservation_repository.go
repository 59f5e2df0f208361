package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/lifequestapp/lifequest-server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReservationRepository handles database operations for question reservations.
type ReservationRepository struct {
	collection *mongo.Collection
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{
		collection: db.Collection("question_reservations"),
	}
}

// CreateReservation inserts a new reservation.
func (r *ReservationRepository) CreateReservation(ctx context.Context, res *models.QuestionReservation) (*models.QuestionReservation, error) {
	res.CreatedAt = time.Now()
	res.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, res)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert reservation")
		return nil, fmt.Errorf("failed to create reservation: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted reservation ID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	res.ID = insertedID

	logger.Log.WithField("reservation_id", res.ID.Hex()).Info("Reservation created")
	return res, nil
}

// CreateReservations inserts a batch of reservations in one write, used by
// the AI schedule confirmation fan-out.
func (r *ReservationRepository) CreateReservations(ctx context.Context, reservations []*models.QuestionReservation) error {
	if len(reservations) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(reservations))
	now := time.Now()
	for _, res := range reservations {
		if res.ID.IsZero() {
			res.ID = primitive.NewObjectID()
		}
		res.CreatedAt = now
		res.UpdatedAt = now
		docs = append(docs, res)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		logger.Log.WithError(err).Error("Failed to batch insert reservations")
		return fmt.Errorf("failed to create reservations: %v", err)
	}

	logger.Log.WithField("count", len(reservations)).Info("Reservations created")
	return nil
}

// GetReservationByID fetches a reservation by its ID.
func (r *ReservationRepository) GetReservationByID(ctx context.Context, id primitive.ObjectID) (*models.QuestionReservation, error) {
	var res models.QuestionReservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err != nil {
		logger.Log.WithError(err).WithField("reservation_id", id.Hex()).Warn("Failed to find reservation")
		return nil, fmt.Errorf("failed to find reservation: %v", err)
	}
	return &res, nil
}

// GetReservations fetches all reservations belonging to a user.
func (r *ReservationRepository) GetReservations(ctx context.Context, userID primitive.ObjectID) ([]models.QuestionReservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "next_run_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservations: %v", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.QuestionReservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %v", err)
	}
	return reservations, nil
}

// UpdateReservation replaces the mutable fields of a reservation.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, id primitive.ObjectID, res *models.QuestionReservation) (*models.QuestionReservation, error) {
	res.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": res})
	if err != nil {
		logger.Log.WithError(err).WithField("reservation_id", id.Hex()).Error("Failed to update reservation")
		return nil, fmt.Errorf("failed to update reservation: %v", err)
	}
	return res, nil
}

// DeleteReservation deletes a reservation by its ID.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("reservation_id", id.Hex()).Error("Failed to delete reservation")
		return fmt.Errorf("failed to delete reservation: %v", err)
	}
	return nil
}

// FindDue returns unprocessed reservations across all users whose next run
// time has passed, oldest first, capped at limit. One compound query covers
// FIXED, AI_GENERATED and RECURRING reservations alike.
func (r *ReservationRepository) FindDue(ctx context.Context, now time.Time, limit int64) ([]models.QuestionReservation, error) {
	filter := bson.M{
		"is_processed": false,
		"next_run_at":  bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "next_run_at", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due reservations: %v", err)
	}
	defer cursor.Close(ctx)

	var due []models.QuestionReservation
	if err := cursor.All(ctx, &due); err != nil {
		return nil, fmt.Errorf("failed to decode due reservations: %v", err)
	}
	return due, nil
}

// ClaimDue atomically marks a due reservation as being processed. It returns
// false when the reservation was already claimed, already processed, or no
// longer exists, in which case the caller must skip it.
func (r *ReservationRepository) ClaimDue(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":          id,
		"is_processed": false,
		"processing":   bson.M{"$ne": true},
	}
	update := bson.M{"$set": bson.M{"processing": true, "updated_at": time.Now()}}

	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim reservation: %v", err)
	}
	return true, nil
}

// ReleaseClaim clears the processing flag without touching scheduling state,
// used when a claimed reservation is skipped.
func (r *ReservationRepository) ReleaseClaim(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"processing": false, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to release reservation claim: %v", err)
	}
	return nil
}

// MarkProcessed finalizes a one-shot reservation after its single firing.
func (r *ReservationRepository) MarkProcessed(ctx context.Context, id primitive.ObjectID, firedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"is_processed": true,
		"processing":   false,
		"last_run_at":  firedAt,
		"updated_at":   time.Now(),
	}}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.Log.WithError(err).WithField("reservation_id", id.Hex()).Error("Failed to mark reservation processed")
		return fmt.Errorf("failed to mark reservation processed: %v", err)
	}
	return nil
}

// AdvanceRecurring moves a recurring reservation to its next occurrence.
func (r *ReservationRepository) AdvanceRecurring(ctx context.Context, id primitive.ObjectID, nextRunAt, firedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"next_run_at": nextRunAt,
		"processing":  false,
		"last_run_at": firedAt,
		"updated_at":  time.Now(),
	}}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.Log.WithError(err).WithField("reservation_id", id.Hex()).Error("Failed to advance recurring reservation")
		return fmt.Errorf("failed to advance reservation: %v", err)
	}
	return nil
}
