package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MhisterKhing6/shortly/internal/domain/reason"
)

const (
	// ReasonCollectionName is the name of the cancellation reason collection in MongoDB
	ReasonCollectionName = "cancelation_reasons"
)

// ReasonRepository implements the reason.Repository interface for MongoDB
type ReasonRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReasonRepository creates a new MongoDB cancellation reason repository
func NewReasonRepository(logger *slog.Logger, db *mongo.Database) reason.Repository {
	return &ReasonRepository{
		db:     db,
		logger: logger,
	}
}

// IncrementUsage bumps the usage counter for the reason text, inserting it
// with a fresh id when the reason is not yet listed.
func (r *ReasonRepository) IncrementUsage(ctx context.Context, reasonText string) error {
	if reasonText == "" {
		return nil
	}

	collection := r.db.Collection(ReasonCollectionName)

	filter := bson.M{"reason": reasonText}
	update := bson.M{
		"$inc":         bson.M{"count": 1},
		"$setOnInsert": bson.M{"_id": uuid.New().String()},
	}
	opts := options.Update().SetUpsert(true)

	_, err := collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		r.logger.Error("Failed to increment cancellation reason usage",
			"reason", reasonText,
			"error", err)
		return fmt.Errorf("failed to increment cancellation reason usage: %w", err)
	}

	return nil
}

// List returns all reasons ordered by usage, most used first
func (r *ReasonRepository) List(ctx context.Context) ([]*reason.CancelationReason, error) {
	collection := r.db.Collection(ReasonCollectionName)

	opts := options.Find().SetSort(bson.M{"count": -1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("Failed to list cancellation reasons", "error", err)
		return nil, fmt.Errorf("failed to list cancellation reasons: %w", err)
	}
	defer cursor.Close(ctx)

	var reasons []*reason.CancelationReason
	if err := cursor.All(ctx, &reasons); err != nil {
		r.logger.Error("Failed to decode cancellation reasons", "error", err)
		return nil, fmt.Errorf("failed to decode cancellation reasons: %w", err)
	}

	return reasons, nil
}
