package assignment

import (
	"context"
	"time"
)

// OfficeFilter narrows office-scoped assignment listings. Nil pointer
// fields are not applied.
type OfficeFilter struct {
	Status  *Status
	Payed   *bool
	SortAsc bool // default is assignedAt descending
}

// Repository manages assignment persistence with pagination and bulk
// settlement support
type Repository interface {
	Create(ctx context.Context, a *Assignment) error

	// GetByID retrieves an assignment by its id.
	// Returns ErrNotFound if no assignment exists.
	GetByID(ctx context.Context, assignmentID string) (*Assignment, error)

	// Update persists the full document conditionally: the write applies
	// only if the stored updatedAt still equals expectedUpdatedAt.
	// Returns ErrStale when another writer got there first.
	Update(ctx context.Context, a *Assignment, expectedUpdatedAt time.Time) error

	// ListByOffice returns a page of an office's assignments plus the
	// total match count.
	ListByOffice(ctx context.Context, officeID string, filter OfficeFilter, limit, offset int) ([]*Assignment, int64, error)

	// ListCancelledByOffice returns a page of the office's cancelled
	// assignments, newest first.
	ListCancelledByOffice(ctx context.Context, officeID string, limit, offset int) ([]*Assignment, int64, error)

	// ListByRider returns a rider's assignments, optionally excluding
	// delivered ones.
	ListByRider(ctx context.Context, riderID string, onlyUndelivered bool) ([]*Assignment, error)

	// ListByRiderAndPayed returns a rider's assignments filtered by the
	// payment flag.
	ListByRiderAndPayed(ctx context.Context, riderID string, payed bool) ([]*Assignment, error)

	// SearchByReceiverPhone returns a rider's undelivered assignments
	// whose batch contains a parcel addressed to the given phone number.
	SearchByReceiverPhone(ctx context.Context, riderID, receiverPhone string) ([]*Assignment, error)

	// MarkSettled sets status=COMPLETED and payed=true on every listed
	// assignment in one unordered bulk write. Ids with no matching
	// document are skipped; the modified count is returned.
	MarkSettled(ctx context.Context, assignmentIDs []string) (int64, error)

	// OutstandingTotals aggregates count and amount of unpaid assignments
	// in active statuses for an office, with assignedAt >= since. A zero
	// since omits the lower bound.
	OutstandingTotals(ctx context.Context, officeID string, since time.Time) (count int64, amount int64, err error)
}
