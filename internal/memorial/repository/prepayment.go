package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	memorialerrors "bayview/internal/memorial/errors"
	"bayview/pkg/config"
	mongotx "bayview/pkg/db/mongo"
	"bayview/pkg/model"
)

const (
	CollectionName = "Prepayments"
)

// LookupQuery identifies credits for office lookups. Exactly one field
// is expected to be set; when several are, they all must match.
type LookupQuery struct {
	SubmissionID   string
	PurchaserPhone string
	PurchaserEmail string
}

func (q LookupQuery) Empty() bool {
	return q.SubmissionID == "" && q.PurchaserPhone == "" && q.PurchaserEmail == ""
}

type PrepaymentRepository interface {
	Create(ctx context.Context, credit *model.PrepaymentCredit) error
	FindBySubmissionID(ctx context.Context, submissionID string) (*model.PrepaymentCredit, error)
	Lookup(ctx context.Context, query LookupQuery) ([]*model.PrepaymentCredit, error)
	RedeemOne(ctx context.Context, submissionID, bookingID, noteLine string) (*model.PrepaymentCredit, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoPrepaymentRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoPrepaymentRepository(cfg *config.Config) PrepaymentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPrepaymentRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a
// transaction. SessionContext cannot be wrapped without breaking
// transaction semantics, so inside one the context passes through with
// a no-op cancel.
func (r *mongoPrepaymentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoPrepaymentRepository) Create(ctx context.Context, credit *model.PrepaymentCredit) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	credit.CreatedAt = now
	credit.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, credit)
	if err != nil {
		return fmt.Errorf("failed to create prepayment credit: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		credit.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPrepaymentRepository) FindBySubmissionID(ctx context.Context, submissionID string) (*model.PrepaymentCredit, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var credit model.PrepaymentCredit
	err := r.collection.FindOne(ctx, bson.M{"submission_id": submissionID}).Decode(&credit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, memorialerrors.ErrCreditNotFound
		}
		return nil, fmt.Errorf("failed to find prepayment credit: %w", err)
	}

	return &credit, nil
}

func (r *mongoPrepaymentRepository) Lookup(ctx context.Context, query LookupQuery) ([]*model.PrepaymentCredit, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if query.SubmissionID != "" {
		filter["submission_id"] = query.SubmissionID
	}
	if query.PurchaserPhone != "" {
		filter["purchaser_phone"] = query.PurchaserPhone
	}
	if query.PurchaserEmail != "" {
		filter["purchaser_email"] = query.PurchaserEmail
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to look up prepayment credits: %w", err)
	}
	defer cursor.Close(ctx)

	var credits []*model.PrepaymentCredit
	if err = cursor.All(ctx, &credits); err != nil {
		return nil, fmt.Errorf("failed to decode prepayment credits: %w", err)
	}

	return credits, nil
}

// RedeemOne consumes one placement with a single guarded update. The
// filter admits only a redeemable credit (not terminal, capacity left),
// so a concurrent redemption that takes the last placement makes this
// call miss instead of over-consuming. The update pipeline increments
// the counter, derives the new status, fills the first empty booking
// link slot, stamps the use date and appends the audit note, all from
// the document state the filter matched.
func (r *mongoPrepaymentRepository) RedeemOne(ctx context.Context, submissionID, bookingID, noteLine string) (*model.PrepaymentCredit, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{
		"submission_id": submissionID,
		"status":        bson.M{"$nin": bson.A{model.CreditCancelled, model.CreditRefunded}},
		"$expr":         bson.M{"$lt": bson.A{"$placements_used", "$capacity"}},
	}

	id1Empty := bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$linked_booking_id1", ""}}, ""}}
	id2Empty := bson.M{"$eq": bson.A{bson.M{"$ifNull": bson.A{"$linked_booking_id2", ""}}, ""}}
	newUsed := bson.M{"$add": bson.A{"$placements_used", 1}}

	update := bson.A{
		bson.M{"$set": bson.M{
			"placements_used": newUsed,
			"status": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{newUsed, "$capacity"}},
				model.CreditFullyUsed,
				model.CreditPartiallyUsed,
			}},
			"linked_booking_id1": bson.M{"$cond": bson.A{
				id1Empty, bookingID, "$linked_booking_id1",
			}},
			"linked_booking_id2": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{bson.M{"$not": id1Empty}, id2Empty}},
				bookingID,
				"$linked_booking_id2",
			}},
			"first_use_date": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$placements_used", 0}}, now, "$first_use_date",
			}},
			"second_use_date": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$placements_used", 1}}, now, "$second_use_date",
			}},
			"notes": bson.M{"$concat": bson.A{
				bson.M{"$ifNull": bson.A{"$notes", ""}}, noteLine,
			}},
			"updated_at": now,
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var credit model.PrepaymentCredit
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&credit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, memorialerrors.ErrNoCapacity
		}
		return nil, fmt.Errorf("failed to redeem prepayment credit: %w", err)
	}

	return &credit, nil
}

func (r *mongoPrepaymentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
