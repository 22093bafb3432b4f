package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	chapelerrors "bayview/internal/chapel/errors"
	"bayview/pkg/config"
	"bayview/pkg/model"
)

const (
	SlotClaimCollectionName = "Slot_claims"
)

// SlotClaimRepository enforces that at most one in-flight booking
// request holds a given (date, time) slot. The store's unique _id
// constraint does the arbitration; losers get ErrSlotClaimed and can
// retry once the holder finishes or the claim expires.
type SlotClaimRepository interface {
	Claim(ctx context.Context, date time.Time, serviceTime string) (string, error)
	Release(ctx context.Context, claimID string) error
}

type mongoSlotClaimRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotClaimRepository(cfg *config.Config) SlotClaimRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotClaimRepository{
		cfg:        cfg,
		collection: db.Collection(SlotClaimCollectionName),
	}
}

func (r *mongoSlotClaimRepository) Claim(ctx context.Context, date time.Time, serviceTime string) (string, error) {
	claimID := fmt.Sprintf("slot_%s_%s", date.Format("2006-01-02"), serviceTime)

	claim := &model.SlotClaim{
		ID:        claimID,
		ExpiresAt: time.Now().Add(r.cfg.SlotClaimTTL),
		CreatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", chapelerrors.ErrSlotClaimed
		}
		return "", fmt.Errorf("failed to claim slot: %w", err)
	}

	return claimID, nil
}

func (r *mongoSlotClaimRepository) Release(ctx context.Context, claimID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": claimID})
	return err
}
