package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MhisterKhing6/shortly/internal/domain/reconciliation"
)

const (
	// ReconciliationCollectionName is the name of the ledger collection in MongoDB
	ReconciliationCollectionName = "reconcilations"
)

// ReconciliationRepository implements the reconciliation.Repository
// interface for MongoDB
type ReconciliationRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReconciliationRepository creates a new MongoDB reconciliation repository
func NewReconciliationRepository(logger *slog.Logger, db *mongo.Database) reconciliation.Repository {
	return &ReconciliationRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert writes the record keyed by assignment id: re-settling an
// assignment updates the existing record instead of inserting a duplicate.
func (r *ReconciliationRepository) Upsert(ctx context.Context, record *reconciliation.Record) error {
	collection := r.db.Collection(ReconciliationCollectionName)

	filter := bson.M{"assignmentId": record.AssignmentID}
	opts := options.Replace().SetUpsert(true)

	_, err := collection.ReplaceOne(ctx, filter, record, opts)
	if err != nil {
		r.logger.Error("Failed to upsert reconciliation record",
			"assignment_id", record.AssignmentID,
			"error", err)
		return fmt.Errorf("failed to upsert reconciliation record: %w", err)
	}

	return nil
}

// GetByAssignmentID retrieves the ledger record for an assignment.
// Returns ErrRecordNotFound if none exists.
func (r *ReconciliationRepository) GetByAssignmentID(ctx context.Context, assignmentID string) (*reconciliation.Record, error) {
	collection := r.db.Collection(ReconciliationCollectionName)

	filter := bson.M{"assignmentId": assignmentID}
	var record reconciliation.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reconciliation.ErrRecordNotFound{AssignmentID: assignmentID}
		}
		r.logger.Error("Failed to get reconciliation record",
			"assignment_id", assignmentID,
			"error", err)
		return nil, fmt.Errorf("failed to get reconciliation record: %w", err)
	}

	return &record, nil
}

// ListByRider retrieves paginated ledger records for a rider, newest first
func (r *ReconciliationRepository) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*reconciliation.Record, error) {
	collection := r.db.Collection(ReconciliationCollectionName)

	filter := bson.M{"riderId": riderID}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list reconciliation records",
			"rider_id", riderID,
			"error", err)
		return nil, fmt.Errorf("failed to list reconciliation records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*reconciliation.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode reconciliation records",
			"rider_id", riderID,
			"error", err)
		return nil, fmt.Errorf("failed to decode reconciliation records: %w", err)
	}

	return records, nil
}

// CompletedTotals aggregates count and payedAmount over completed records
// for an office. A zero since omits the lower bound.
func (r *ReconciliationRepository) CompletedTotals(ctx context.Context, officeID string, since time.Time) (int64, int64, error) {
	collection := r.db.Collection(ReconciliationCollectionName)

	match := bson.M{
		"officeId":    officeID,
		"isCompleted": true,
	}
	if !since.IsZero() {
		match["reconciledAt"] = bson.M{"$gte": since.UnixMilli()}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$payedAmount"},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate completed totals",
			"office_id", officeID,
			"error", err)
		return 0, 0, fmt.Errorf("failed to aggregate completed totals: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count  int64 `bson:"count"`
		Amount int64 `bson:"amount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode completed totals: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}

	return results[0].Count, results[0].Amount, nil
}
