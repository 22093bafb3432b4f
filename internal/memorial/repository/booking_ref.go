package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	memorialerrors "bayview/internal/memorial/errors"
	"bayview/pkg/config"
	"bayview/pkg/model"
)

const (
	BookingCollectionName = "Bookings"
)

// BookingRefRepository is the memorial service's narrow view of the
// shared booking collection: verifying a redemption target exists and
// stamping it once the credit is consumed.
type BookingRefRepository interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	MarkPrepaymentUsed(ctx context.Context, bookingID, submissionID string) error
}

type mongoBookingRefRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRefRepository(cfg *config.Config) BookingRefRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRefRepository{
		cfg:        cfg,
		collection: db.Collection(BookingCollectionName),
	}
}

func (r *mongoBookingRefRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRefRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", memorialerrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, memorialerrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRefRepository) MarkPrepaymentUsed(ctx context.Context, bookingID, submissionID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return fmt.Errorf("%w: %s", memorialerrors.ErrInvalidID, bookingID)
	}

	update := bson.M{
		"$set": bson.M{
			"prepayment_used":          true,
			"prepayment_submission_id": submissionID,
			"updated_at":               time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking prepayment: %w", err)
	}
	if result.MatchedCount == 0 {
		return memorialerrors.ErrBookingNotFound
	}

	return nil
}
