package service

import (
	"context"
	"time"

	"github.com/MhisterKhing6/shortly/internal/auth"
	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
	"github.com/MhisterKhing6/shortly/internal/domain/reason"
	"github.com/MhisterKhing6/shortly/internal/domain/reconciliation"
)

// CreateResult reports what a batch creation actually did: parcels that
// were not eligible for home delivery are skipped, not failed, so the
// caller needs both sides of the split.
type CreateResult struct {
	AssignmentID     string
	RiderPhoneNumber string
	AssignedParcels  int
	SkippedParcels   []string
}

// StatusUpdate carries a requested status transition
type StatusUpdate struct {
	Status            assignment.Status
	ConfirmationCode  string
	CancelationReason string
	ParcelID          string
	PaymentMethod     string
}

// ReconcileResult reports which assignment ids were settled and which were
// silently skipped because no matching assignment exists.
type ReconcileResult struct {
	Settled []string
	Skipped []string
}

// AssignmentService defines the delivery assignment engine operations
type AssignmentService interface {
	// Create builds an assignment from a rider and a parcel batch.
	// Returns rider.ErrNotFound, parcel.ErrNotFound (whole batch fails),
	// ErrNoEligibleParcels, or auth.ErrForbidden.
	Create(ctx context.Context, riderID string, parcelIDs []string, caller auth.Caller) (*CreateResult, error)

	// UpdateStatus applies a transition on the rider path: the caller
	// must be the assigned rider, and DELIVERED requires the matching
	// confirmation code.
	UpdateStatus(ctx context.Context, assignmentID string, update StatusUpdate, caller auth.Caller) (*assignment.Assignment, error)

	// OverrideStatus applies a transition on the manager path, which
	// skips the confirmation-code check but is otherwise identical.
	OverrideStatus(ctx context.Context, assignmentID string, update StatusUpdate, caller auth.Caller) (*assignment.Assignment, error)

	// ResendConfirmationCode re-sends the receiver SMS for every
	// non-cancelled parcel in the batch.
	ResendConfirmationCode(ctx context.Context, assignmentID string, caller auth.Caller) error

	// ListByOffice returns a page of the caller's office assignments.
	ListByOffice(ctx context.Context, filter assignment.OfficeFilter, page, perPage int, caller auth.Caller) ([]*assignment.Assignment, int64, error)

	// ListCancelled returns a page of the caller's office cancelled
	// assignments.
	ListCancelled(ctx context.Context, page, perPage int, caller auth.Caller) ([]*assignment.Assignment, int64, error)

	// ListForRider returns the authenticated rider's own assignments. A
	// non-empty receiverPhone searches undelivered batches by receiver.
	ListForRider(ctx context.Context, onlyUndelivered bool, receiverPhone string, caller auth.Caller) ([]*assignment.Assignment, error)

	// ListRiderByID is the front-desk view of one rider's assignments by
	// payment flag.
	ListRiderByID(ctx context.Context, riderID string, payed bool, caller auth.Caller) ([]*assignment.Assignment, error)

	// ListCancelationReasons returns the known cancellation reasons,
	// most used first.
	ListCancelationReasons(ctx context.Context, caller auth.Caller) ([]*reason.CancelationReason, error)
}

// ReconciliationService defines the settlement operations
type ReconciliationService interface {
	// Reconcile settles a batch of assignments at settledAt (now when
	// nil). Missing ids are skipped silently; rerunning the same batch
	// is safe.
	Reconcile(ctx context.Context, assignmentIDs []string, settledAt *time.Time, caller auth.Caller) (*ReconcileResult, error)

	// ReconcileOne settles a single assignment with an explicit collected
	// amount, which may differ from the expected amount.
	ReconcileOne(ctx context.Context, assignmentID string, payedAmount int64, settledAt *time.Time, caller auth.Caller) error

	// Stats aggregates completed versus outstanding figures for the
	// caller's office over the period window.
	Stats(ctx context.Context, period reconciliation.Period, caller auth.Caller) (*reconciliation.Stats, error)

	// ListRiderRecords returns a page of a rider's settlement history,
	// newest first.
	ListRiderRecords(ctx context.Context, riderID string, page, perPage int, caller auth.Caller) ([]*reconciliation.Record, error)
}

// StatsCache is a read-through cache for office statistics. A nil cache
// is valid and means every read goes to the database.
type StatsCache interface {
	Get(ctx context.Context, officeID string, period reconciliation.Period) (*reconciliation.Stats, bool)
	Set(ctx context.Context, officeID string, period reconciliation.Period, stats *reconciliation.Stats)
}
