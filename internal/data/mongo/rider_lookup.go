package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MhisterKhing6/shortly/internal/domain/rider"
)

const (
	// UserCollectionName is the name of the user collection in MongoDB.
	// User management is owned by the user service; this lookup only
	// reads rider projections out of it.
	UserCollectionName = "users"
)

// RiderLookup implements the rider.Lookup interface for MongoDB
type RiderLookup struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewRiderLookup creates a new MongoDB rider lookup
func NewRiderLookup(logger *slog.Logger, db *mongo.Database) rider.Lookup {
	return &RiderLookup{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves a rider by user id. Users holding any other role are
// reported as not found.
func (l *RiderLookup) FindByID(ctx context.Context, riderID string) (*rider.Rider, error) {
	collection := l.db.Collection(UserCollectionName)

	filter := bson.M{"userId": riderID, "role": "RIDER"}
	var r rider.Rider
	err := collection.FindOne(ctx, filter).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rider.ErrNotFound{RiderID: riderID}
		}
		l.logger.Error("Failed to get rider",
			"rider_id", riderID,
			"error", err)
		return nil, fmt.Errorf("failed to get rider: %w", err)
	}

	return &r, nil
}

// Exists reports whether a rider with the given id exists
func (l *RiderLookup) Exists(ctx context.Context, riderID string) (bool, error) {
	collection := l.db.Collection(UserCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"userId": riderID, "role": "RIDER"})
	if err != nil {
		l.logger.Error("Failed to count riders",
			"rider_id", riderID,
			"error", err)
		return false, fmt.Errorf("failed to count riders: %w", err)
	}

	return count > 0, nil
}
