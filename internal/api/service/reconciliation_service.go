package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MhisterKhing6/shortly/internal/auth"
	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
	"github.com/MhisterKhing6/shortly/internal/domain/parcel"
	"github.com/MhisterKhing6/shortly/internal/domain/reconciliation"
	"github.com/MhisterKhing6/shortly/internal/platform/messaging/producers"
)

// ReconciliationServiceImpl implements the ReconciliationService interface
type ReconciliationServiceImpl struct {
	recordRepo     reconciliation.Repository
	assignmentRepo assignment.Repository
	parcelStore    parcel.Store
	statsCache     StatsCache
	events         producers.EventPublisher
	logger         *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	logger *slog.Logger,
	recordRepo reconciliation.Repository,
	assignmentRepo assignment.Repository,
	parcelStore parcel.Store,
	statsCache StatsCache,
	events producers.EventPublisher,
) ReconciliationService {
	return &ReconciliationServiceImpl{
		recordRepo:     recordRepo,
		assignmentRepo: assignmentRepo,
		parcelStore:    parcelStore,
		statsCache:     statsCache,
		events:         events,
		logger:         logger,
	}
}

// Reconcile settles a batch of assignments. An id with no matching
// assignment is skipped, not failed, so a stale settlement sheet never
// blocks the rest of the batch. Rerunning the same sheet is safe: each
// ledger record is upserted by assignment id and the status write is a
// no-op on already settled documents.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, assignmentIDs []string, settledAt *time.Time, caller auth.Caller) (*ReconcileResult, error) {
	if !caller.CanManageDeliveries() {
		return nil, auth.ErrForbidden
	}

	result := &ReconcileResult{}
	reconciledAt := time.Now()
	if settledAt != nil {
		reconciledAt = *settledAt
	}

	var settled []*assignment.Assignment
	for _, assignmentID := range assignmentIDs {
		a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
		if err != nil {
			if errors.Is(err, assignment.ErrNotFound{}) {
				s.logger.Warn("Skipping unknown assignment in reconciliation batch",
					"assignment_id", assignmentID)
				result.Skipped = append(result.Skipped, assignmentID)
				continue
			}
			return nil, err
		}

		// Bulk mode takes the expected amount as collected.
		if err := s.writeRecord(ctx, a, a.Amount, reconciledAt, caller); err != nil {
			return nil, err
		}

		settled = append(settled, a)
		result.Settled = append(result.Settled, assignmentID)
	}

	if len(result.Settled) > 0 {
		if _, err := s.assignmentRepo.MarkSettled(ctx, result.Settled); err != nil {
			return nil, err
		}
	}

	for _, a := range settled {
		s.syncParcels(ctx, a)
		s.publishReconciled(ctx, a)
	}

	s.logger.Info("Reconciliation batch processed",
		"requested", len(assignmentIDs),
		"settled", len(result.Settled),
		"skipped", len(result.Skipped),
		"office_id", caller.OfficeID,
	)

	return result, nil
}

// ReconcileOne settles a single assignment with an explicit collected
// amount. Unlike the bulk path, an unknown assignment id is an error.
func (s *ReconciliationServiceImpl) ReconcileOne(ctx context.Context, assignmentID string, payedAmount int64, settledAt *time.Time, caller auth.Caller) error {
	if !caller.CanManageDeliveries() {
		return auth.ErrForbidden
	}

	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}

	reconciledAt := time.Now()
	if settledAt != nil {
		reconciledAt = *settledAt
	}

	if err := s.writeRecord(ctx, a, payedAmount, reconciledAt, caller); err != nil {
		return err
	}
	if _, err := s.assignmentRepo.MarkSettled(ctx, []string{assignmentID}); err != nil {
		return err
	}

	s.syncParcels(ctx, a)
	s.publishReconciled(ctx, a)

	s.logger.Info("Assignment reconciled",
		"assignment_id", assignmentID,
		"expected_amount", a.Amount,
		"payed_amount", payedAmount,
	)

	return nil
}

// writeRecord upserts the ledger record for one assignment, reusing the
// existing record id so re-settlement never duplicates entries.
func (s *ReconciliationServiceImpl) writeRecord(ctx context.Context, a *assignment.Assignment, payedAmount int64, reconciledAt time.Time, caller auth.Caller) error {
	record := &reconciliation.Record{
		ID:               uuid.New().String(),
		AssignmentID:     a.AssignmentID,
		PayedTo:          caller.Name,
		Type:             reconciliation.TypeRider,
		RiderID:          a.Rider.RiderID,
		RiderName:        a.Rider.RiderName,
		RiderPhoneNumber: a.Rider.RiderPhoneNumber,
		OfficeID:         a.OfficeID,
		ExpectedAmount:   a.Amount,
		PayedAmount:      payedAmount,
		IsCompleted:      true,
		CreatedAt:        reconciledAt.UnixMilli(),
		ReconciledAt:     reconciledAt.UnixMilli(),
	}
	if len(a.Parcels) > 0 {
		record.ParcelID = a.Parcels[0].ParcelID
	}

	existing, err := s.recordRepo.GetByAssignmentID(ctx, a.AssignmentID)
	switch {
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	case errors.Is(err, reconciliation.ErrRecordNotFound{}):
		// First settlement for this assignment
	default:
		return err
	}

	return s.recordRepo.Upsert(ctx, record)
}

// syncParcels flags the batch's parcels delivered. Settlement can be the
// first confirmation the office gets when a rider never reported the
// delivery, so the parcel store is healed here as well.
func (s *ReconciliationServiceImpl) syncParcels(ctx context.Context, a *assignment.Assignment) {
	active := a.ActiveParcelIDs()
	if len(active) == 0 {
		return
	}
	if err := s.parcelStore.MarkDelivered(ctx, active); err != nil {
		s.logger.Error("Failed to flag parcels as delivered after settlement",
			"assignment_id", a.AssignmentID,
			"parcel_count", len(active),
			"error", err)
	}
}

func (s *ReconciliationServiceImpl) publishReconciled(ctx context.Context, a *assignment.Assignment) {
	if s.events == nil {
		return
	}

	event := producers.AssignmentEvent{
		Name:         producers.EventAssignmentReconciled,
		AssignmentID: a.AssignmentID,
		OfficeID:     a.OfficeID,
		RiderID:      a.Rider.RiderID,
		Status:       string(assignment.StatusCompleted),
		Amount:       a.Amount,
		OccurredAt:   time.Now().UnixMilli(),
	}
	if err := s.events.Publish(ctx, a.AssignmentID, event); err != nil {
		s.logger.Error("Failed to publish reconciliation event",
			"assignment_id", a.AssignmentID,
			"error", err)
	}
}

// Stats aggregates completed versus outstanding figures for the caller's
// office over the period window, serving from cache when possible.
func (s *ReconciliationServiceImpl) Stats(ctx context.Context, period reconciliation.Period, caller auth.Caller) (*reconciliation.Stats, error) {
	if !caller.CanManageDeliveries() {
		return nil, auth.ErrForbidden
	}

	if s.statsCache != nil {
		if stats, ok := s.statsCache.Get(ctx, caller.OfficeID, period); ok {
			return stats, nil
		}
	}

	since := period.Since(time.Now())

	completedCount, completedAmount, err := s.recordRepo.CompletedTotals(ctx, caller.OfficeID, since)
	if err != nil {
		return nil, err
	}
	outstandingCount, outstandingAmount, err := s.assignmentRepo.OutstandingTotals(ctx, caller.OfficeID, since)
	if err != nil {
		return nil, err
	}

	stats := &reconciliation.Stats{
		CompletedCount:     completedCount,
		NotCompletedCount:  outstandingCount,
		CompletedAmount:    completedAmount,
		NotCompletedAmount: outstandingAmount,
		TotalCount:         completedCount + outstandingCount,
		TotalAmount:        completedAmount + outstandingAmount,
	}

	if s.statsCache != nil {
		s.statsCache.Set(ctx, caller.OfficeID, period, stats)
	}

	return stats, nil
}

// ListRiderRecords returns a page of a rider's settlement history, newest
// first.
func (s *ReconciliationServiceImpl) ListRiderRecords(ctx context.Context, riderID string, page, perPage int, caller auth.Caller) ([]*reconciliation.Record, error) {
	if !caller.CanManageDeliveries() {
		return nil, auth.ErrForbidden
	}

	offset := (page - 1) * perPage
	return s.recordRepo.ListByRider(ctx, riderID, perPage, offset)
}
