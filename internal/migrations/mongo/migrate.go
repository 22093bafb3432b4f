package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bayview/internal/migrations/mongo/validators"
)

const (
	DB_NAME = "bayview"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "service_date", Value: 1},
			{Key: "service_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "service_date", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{{Key: "prepayment_submission_id", Value: 1}}},
	}

	BlackoutPeriodsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		}},
	}

	PrepaymentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "submission_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "purchaser_phone", Value: 1}}},
		{Keys: bson.D{{Key: "purchaser_email", Value: 1}}},
	}

	// Slot claims expire on their own; the TTL index is the cleanup.
	SlotClaimsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client) error {
	db := client.Database(DB_NAME)
	fmt.Printf("🚀 Running Bayview Mongo migrations on database: %s\n", DB_NAME)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Blackout_periods": {
			Indexes:   BlackoutPeriodsIndexes,
			Validator: validators.BlackoutPeriodValidator,
		},
		"Prepayments": {
			Indexes:   PrepaymentsIndexes,
			Validator: validators.PrepaymentValidator,
		},
		"Slot_claims": {
			Indexes: SlotClaimsIndexes,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else if validator != nil {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
