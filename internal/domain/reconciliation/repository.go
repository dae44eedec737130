package reconciliation

import (
	"context"
	"time"
)

// Stats aggregates completed versus outstanding settlement figures for an
// office over a time window. Amounts are in minor units.
type Stats struct {
	CompletedCount     int64 `json:"completed_count"`
	NotCompletedCount  int64 `json:"not_completed_count"`
	CompletedAmount    int64 `json:"completed_amount"`
	NotCompletedAmount int64 `json:"not_completed_amount"`
	TotalCount         int64 `json:"total_count"`
	TotalAmount        int64 `json:"total_amount"`
}

// Repository manages ledger record persistence. Records are keyed by
// assignment id: settling the same assignment twice updates the existing
// record instead of inserting a duplicate.
type Repository interface {
	// Upsert writes the record, replacing any existing one with the same
	// assignment id.
	Upsert(ctx context.Context, record *Record) error

	// GetByAssignmentID retrieves the record for an assignment.
	// Returns ErrRecordNotFound if none exists.
	GetByAssignmentID(ctx context.Context, assignmentID string) (*Record, error)

	// ListByRider returns a rider's records, newest first.
	ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*Record, error)

	// CompletedTotals aggregates count and payedAmount sum over completed
	// records for an office with reconciledAt >= since. A zero since
	// omits the lower bound.
	CompletedTotals(ctx context.Context, officeID string, since time.Time) (count int64, amount int64, err error)
}

// ErrRecordNotFound indicates a missing ledger record
type ErrRecordNotFound struct {
	AssignmentID string
}

func (e ErrRecordNotFound) Error() string {
	return "reconciliation record not found for assignment: " + e.AssignmentID
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.AssignmentID == "" {
		return true
	}
	return e.AssignmentID == t.AssignmentID
}
