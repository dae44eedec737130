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

	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
)

const (
	// AssignmentCollectionName is the name of the delivery assignment collection in MongoDB
	AssignmentCollectionName = "delivery_assignments"
)

// activeStatuses are the statuses counted as outstanding work for an office
var activeStatuses = []assignment.Status{
	assignment.StatusAssigned,
	assignment.StatusAccepted,
	assignment.StatusDelivered,
}

// AssignmentRepository implements the assignment.Repository interface for MongoDB
type AssignmentRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAssignmentRepository creates a new MongoDB assignment repository
func NewAssignmentRepository(logger *slog.Logger, db *mongo.Database) assignment.Repository {
	return &AssignmentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	collection := r.db.Collection(AssignmentCollectionName)

	_, err := collection.InsertOne(ctx, a)
	if err != nil {
		r.logger.Error("Failed to create assignment",
			"assignment_id", a.AssignmentID,
			"error", err)
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	return nil
}

// GetByID retrieves an assignment by its id.
// Returns ErrNotFound if no assignment exists.
func (r *AssignmentRepository) GetByID(ctx context.Context, assignmentID string) (*assignment.Assignment, error) {
	collection := r.db.Collection(AssignmentCollectionName)

	filter := bson.M{"assignmentId": assignmentID}
	var a assignment.Assignment
	err := collection.FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, assignment.ErrNotFound{AssignmentID: assignmentID}
		}
		r.logger.Error("Failed to get assignment",
			"assignment_id", assignmentID,
			"error", err)
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return &a, nil
}

// Update replaces the stored document conditionally on the updatedAt token
// read by the caller, serialising concurrent transitions on one assignment.
// Returns ErrStale when the token no longer matches, ErrNotFound when the
// document is gone.
func (r *AssignmentRepository) Update(ctx context.Context, a *assignment.Assignment, expectedUpdatedAt time.Time) error {
	collection := r.db.Collection(AssignmentCollectionName)

	a.UpdatedAt = time.Now()

	filter := bson.M{
		"assignmentId": a.AssignmentID,
		"updatedAt":    expectedUpdatedAt,
	}
	result, err := collection.ReplaceOne(ctx, filter, a)
	if err != nil {
		r.logger.Error("Failed to update assignment",
			"assignment_id", a.AssignmentID,
			"error", err)
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish a lost race from a deleted document
		count, countErr := collection.CountDocuments(ctx, bson.M{"assignmentId": a.AssignmentID})
		if countErr != nil {
			return fmt.Errorf("failed to verify assignment after conditional update: %w", countErr)
		}
		if count == 0 {
			return assignment.ErrNotFound{AssignmentID: a.AssignmentID}
		}
		return assignment.ErrStale
	}

	return nil
}

// ListByOffice returns a page of an office's assignments plus the total
// match count. Default sort is assignedAt descending.
func (r *AssignmentRepository) ListByOffice(ctx context.Context, officeID string, filter assignment.OfficeFilter, limit, offset int) ([]*assignment.Assignment, int64, error) {
	collection := r.db.Collection(AssignmentCollectionName)

	query := bson.M{"officeId": officeID}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Payed != nil {
		query["payed"] = *filter.Payed
	}

	sortOrder := -1
	if filter.SortAsc {
		sortOrder = 1
	}
	opts := options.Find().
		SetSort(bson.M{"assignedAt": sortOrder}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		r.logger.Error("Failed to list assignments by office",
			"office_id", officeID,
			"error", err)
		return nil, 0, fmt.Errorf("failed to list assignments by office: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []*assignment.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		r.logger.Error("Failed to decode assignments",
			"office_id", officeID,
			"error", err)
		return nil, 0, fmt.Errorf("failed to decode assignments: %w", err)
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count assignments",
			"office_id", officeID,
			"error", err)
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	return assignments, total, nil
}

// ListCancelledByOffice returns a page of the office's cancelled
// assignments, newest first.
func (r *AssignmentRepository) ListCancelledByOffice(ctx context.Context, officeID string, limit, offset int) ([]*assignment.Assignment, int64, error) {
	status := assignment.StatusCancelled
	return r.ListByOffice(ctx, officeID, assignment.OfficeFilter{Status: &status}, limit, offset)
}

// ListByRider returns a rider's assignments, optionally excluding
// delivered ones.
func (r *AssignmentRepository) ListByRider(ctx context.Context, riderID string, onlyUndelivered bool) ([]*assignment.Assignment, error) {
	query := bson.M{"riderInfo.riderId": riderID}
	if onlyUndelivered {
		query["status"] = bson.M{"$ne": assignment.StatusDelivered}
	}
	return r.findAll(ctx, query)
}

// ListByRiderAndPayed returns a rider's assignments filtered by the
// payment flag.
func (r *AssignmentRepository) ListByRiderAndPayed(ctx context.Context, riderID string, payed bool) ([]*assignment.Assignment, error) {
	return r.findAll(ctx, bson.M{"riderInfo.riderId": riderID, "payed": payed})
}

// SearchByReceiverPhone matches the phone number against the embedded
// parcel snapshots of the rider's undelivered assignments.
func (r *AssignmentRepository) SearchByReceiverPhone(ctx context.Context, riderID, receiverPhone string) ([]*assignment.Assignment, error) {
	query := bson.M{
		"riderInfo.riderId":           riderID,
		"parcels.receiverPhoneNumber": receiverPhone,
		"status":                      bson.M{"$ne": assignment.StatusDelivered},
	}
	return r.findAll(ctx, query)
}

func (r *AssignmentRepository) findAll(ctx context.Context, query bson.M) ([]*assignment.Assignment, error) {
	collection := r.db.Collection(AssignmentCollectionName)

	opts := options.Find().SetSort(bson.M{"assignedAt": -1})
	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		r.logger.Error("Failed to find assignments", "error", err)
		return nil, fmt.Errorf("failed to find assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []*assignment.Assignment
	if err := cursor.All(ctx, &assignments); err != nil {
		r.logger.Error("Failed to decode assignments", "error", err)
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}

	return assignments, nil
}

// MarkSettled flips status and payment flags on the whole batch in one
// unordered bulk write. Missing ids simply match nothing.
func (r *AssignmentRepository) MarkSettled(ctx context.Context, assignmentIDs []string) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}

	collection := r.db.Collection(AssignmentCollectionName)

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(assignmentIDs))
	for _, id := range assignmentIDs {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"assignmentId": id}).
			SetUpdate(bson.M{"$set": bson.M{
				"status":    assignment.StatusCompleted,
				"payed":     true,
				"updatedAt": now,
			}}))
	}

	opts := options.BulkWrite().SetOrdered(false)
	result, err := collection.BulkWrite(ctx, models, opts)
	if err != nil {
		r.logger.Error("Failed to bulk-settle assignments",
			"requested", len(assignmentIDs),
			"error", err)
		return 0, fmt.Errorf("failed to bulk-settle assignments: %w", err)
	}

	return result.ModifiedCount, nil
}

// OutstandingTotals aggregates the count and amount of unpaid assignments
// in active statuses for an office. A zero since omits the lower bound.
func (r *AssignmentRepository) OutstandingTotals(ctx context.Context, officeID string, since time.Time) (int64, int64, error) {
	collection := r.db.Collection(AssignmentCollectionName)

	match := bson.M{
		"officeId": officeID,
		"payed":    false,
		"status":   bson.M{"$in": activeStatuses},
	}
	if !since.IsZero() {
		match["assignedAt"] = bson.M{"$gte": since.UnixMilli()}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate outstanding totals",
			"office_id", officeID,
			"error", err)
		return 0, 0, fmt.Errorf("failed to aggregate outstanding totals: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count  int64 `bson:"count"`
		Amount int64 `bson:"amount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode outstanding totals: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}

	return results[0].Count, results[0].Amount, nil
}
