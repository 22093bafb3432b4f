package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bayview/pkg/config"
	"bayview/pkg/model"
)

const (
	BlackoutCollectionName = "Blackout_periods"
)

// BlackoutRepository reads the date ranges during which the chapel is
// closed. Blackouts are static reference data maintained by the office;
// this service only ever reads and seeds them.
type BlackoutRepository interface {
	FindCovering(ctx context.Context, date time.Time) ([]*model.BlackoutPeriod, error)
	FindAll(ctx context.Context) ([]*model.BlackoutPeriod, error)
	Create(ctx context.Context, period *model.BlackoutPeriod) error
}

type mongoBlackoutRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlackoutRepository(cfg *config.Config) BlackoutRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlackoutRepository{
		cfg:        cfg,
		collection: db.Collection(BlackoutCollectionName),
	}
}

// SessionContext passes through untouched; wrapping it would break
// transaction semantics.
func (r *mongoBlackoutRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// FindCovering returns the periods whose inclusive [start_date,
// end_date] range contains the date. A date equal to either boundary is
// covered.
func (r *mongoBlackoutRepository) FindCovering(ctx context.Context, date time.Time) ([]*model.BlackoutPeriod, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"start_date": bson.M{"$lte": date},
		"end_date":   bson.M{"$gte": date},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find blackout periods: %w", err)
	}
	defer cursor.Close(ctx)

	var periods []*model.BlackoutPeriod
	if err = cursor.All(ctx, &periods); err != nil {
		return nil, fmt.Errorf("failed to decode blackout periods: %w", err)
	}

	return periods, nil
}

func (r *mongoBlackoutRepository) FindAll(ctx context.Context) ([]*model.BlackoutPeriod, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list blackout periods: %w", err)
	}
	defer cursor.Close(ctx)

	var periods []*model.BlackoutPeriod
	if err = cursor.All(ctx, &periods); err != nil {
		return nil, fmt.Errorf("failed to decode blackout periods: %w", err)
	}

	return periods, nil
}

func (r *mongoBlackoutRepository) Create(ctx context.Context, period *model.BlackoutPeriod) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	period.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to create blackout period: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		period.ID = oid.Hex()
	}
	return nil
}
