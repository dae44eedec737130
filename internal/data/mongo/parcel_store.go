package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MhisterKhing6/shortly/internal/domain/parcel"
)

const (
	// ParcelCollectionName is the name of the parcel collection in MongoDB
	ParcelCollectionName = "parcels"
)

// ParcelStore implements the parcel.Store interface for MongoDB. Parcel
// intake is owned elsewhere; the engine only reads parcels and flips
// delivery flags.
type ParcelStore struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewParcelStore creates a new MongoDB parcel store
func NewParcelStore(logger *slog.Logger, db *mongo.Database) parcel.Store {
	return &ParcelStore{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves a parcel. Returns ErrNotFound if absent.
func (s *ParcelStore) FindByID(ctx context.Context, parcelID string) (*parcel.Parcel, error) {
	collection := s.db.Collection(ParcelCollectionName)

	filter := bson.M{"parcelId": parcelID}
	var p parcel.Parcel
	err := collection.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, parcel.ErrNotFound{ParcelID: parcelID}
		}
		s.logger.Error("Failed to get parcel",
			"parcel_id", parcelID,
			"error", err)
		return nil, fmt.Errorf("failed to get parcel: %w", err)
	}

	return &p, nil
}

// SetAssigned flips the assignment flag on one parcel
func (s *ParcelStore) SetAssigned(ctx context.Context, parcelID string, assigned bool) error {
	return s.updateOne(ctx, parcelID, bson.M{"$set": bson.M{
		"parcelAssigned": assigned,
		"updatedAt":      time.Now(),
	}})
}

// MarkDelivered sets delivered=true on every listed parcel
func (s *ParcelStore) MarkDelivered(ctx context.Context, parcelIDs []string) error {
	if len(parcelIDs) == 0 {
		return nil
	}

	collection := s.db.Collection(ParcelCollectionName)

	filter := bson.M{"parcelId": bson.M{"$in": parcelIDs}}
	update := bson.M{"$set": bson.M{
		"delivered": true,
		"updatedAt": time.Now(),
	}}

	_, err := collection.UpdateMany(ctx, filter, update)
	if err != nil {
		s.logger.Error("Failed to mark parcels delivered",
			"parcel_count", len(parcelIDs),
			"error", err)
		return fmt.Errorf("failed to mark parcels delivered: %w", err)
	}

	return nil
}

// RecordCancellation increments the cancellation counter and clears the
// delivery flags so the parcel can be re-dispatched later.
func (s *ParcelStore) RecordCancellation(ctx context.Context, parcelID string) error {
	return s.updateOne(ctx, parcelID, bson.M{
		"$inc": bson.M{"cancellationCount": 1},
		"$set": bson.M{
			"delivered":      false,
			"parcelAssigned": false,
			"updatedAt":      time.Now(),
		},
	})
}

func (s *ParcelStore) updateOne(ctx context.Context, parcelID string, update bson.M) error {
	collection := s.db.Collection(ParcelCollectionName)

	result, err := collection.UpdateOne(ctx, bson.M{"parcelId": parcelID}, update)
	if err != nil {
		s.logger.Error("Failed to update parcel",
			"parcel_id", parcelID,
			"error", err)
		return fmt.Errorf("failed to update parcel: %w", err)
	}

	if result.MatchedCount == 0 {
		return parcel.ErrNotFound{ParcelID: parcelID}
	}

	return nil
}
