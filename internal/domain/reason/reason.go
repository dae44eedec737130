package reason

import "context"

// CancelationReason is a reference-list entry with a usage counter. The
// engine only ever bumps counters; list management is a front-desk concern.
type CancelationReason struct {
	ID     string `json:"id" bson:"_id"`
	Reason string `json:"reason" bson:"reason"`
	Count  int    `json:"count" bson:"count"`
}

// Repository manages the cancellation reason reference list
type Repository interface {
	// IncrementUsage bumps the counter for the given reason text,
	// inserting the reason with a count of one if it is not yet listed.
	IncrementUsage(ctx context.Context, reasonText string) error

	// List returns all reasons ordered by usage, most used first.
	List(ctx context.Context) ([]*CancelationReason, error)
}
