package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/MhisterKhing6/shortly/internal/auth"
	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
	"github.com/MhisterKhing6/shortly/internal/domain/parcel"
	"github.com/MhisterKhing6/shortly/internal/domain/reason"
	"github.com/MhisterKhing6/shortly/internal/domain/rider"
	"github.com/MhisterKhing6/shortly/internal/platform/messaging/producers"
	"github.com/MhisterKhing6/shortly/internal/platform/notification"
)

// ErrNoEligibleParcels indicates a batch where every parcel was skipped:
// nothing was assigned, so no assignment is created.
var ErrNoEligibleParcels = errors.New("no parcels in the batch are eligible for home delivery")

// AssignmentServiceImpl implements the AssignmentService interface
type AssignmentServiceImpl struct {
	assignmentRepo assignment.Repository
	parcelStore    parcel.Store
	riderLookup    rider.Lookup
	reasonRepo     reason.Repository
	dispatcher     notification.Dispatcher
	events         producers.EventPublisher
	logger         *slog.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	logger *slog.Logger,
	assignmentRepo assignment.Repository,
	parcelStore parcel.Store,
	riderLookup rider.Lookup,
	reasonRepo reason.Repository,
	dispatcher notification.Dispatcher,
	events producers.EventPublisher,
) AssignmentService {
	return &AssignmentServiceImpl{
		assignmentRepo: assignmentRepo,
		parcelStore:    parcelStore,
		riderLookup:    riderLookup,
		reasonRepo:     reasonRepo,
		dispatcher:     dispatcher,
		events:         events,
		logger:         logger,
	}
}

// Create builds one assignment batching the eligible subset of the
// requested parcels. A missing parcel fails the whole batch; an
// ineligible one is only skipped.
func (s *AssignmentServiceImpl) Create(ctx context.Context, riderID string, parcelIDs []string, caller auth.Caller) (*CreateResult, error) {
	if !caller.CanManageDeliveries() {
		return nil, auth.ErrForbidden
	}

	r, err := s.riderLookup.FindByID(ctx, riderID)
	if err != nil {
		return nil, err
	}

	// Resolve every parcel before mutating anything so a bogus id cannot
	// leave a half-built batch behind.
	parcels := make([]*parcel.Parcel, 0, len(parcelIDs))
	for _, parcelID := range parcelIDs {
		p, err := s.parcelStore.FindByID(ctx, parcelID)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}

	now := time.Now()
	a := &assignment.Assignment{
		AssignmentID: uuid.New().String(),
		Rider: assignment.RiderSnapshot{
			RiderID:          r.UserID,
			RiderName:        r.Name,
			RiderPhoneNumber: r.PhoneNumber,
		},
		OfficeID:         caller.OfficeID,
		Status:           assignment.StatusAssigned,
		ConfirmationCode: generateConfirmationCode(),
		AssignedAt:       now.UnixMilli(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var skipped []string
	for _, p := range parcels {
		if !p.EligibleForHomeDelivery() {
			s.logger.Warn("Parcel is not eligible for home delivery, skipping",
				"parcel_id", p.ParcelID,
				"has_called", p.HasCalled,
				"home_delivery", p.HomeDelivery,
			)
			skipped = append(skipped, p.ParcelID)
			continue
		}

		a.AddParcel(assignment.ParcelSnapshot{
			ParcelID:            p.ParcelID,
			Description:         p.Description,
			ReceiverName:        p.ReceiverName,
			ReceiverPhoneNumber: p.ReceiverPhoneNumber,
			ReceiverAddress:     p.ReceiverAddress,
			SenderName:          p.SenderName,
			SenderPhoneNumber:   p.SenderPhoneNumber,
			Amount:              p.DeliveryAmount(),
		})
	}

	if len(a.Parcels) == 0 {
		return nil, ErrNoEligibleParcels
	}

	if err := s.assignmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	for _, snap := range a.Parcels {
		if err := s.parcelStore.SetAssigned(ctx, snap.ParcelID, true); err != nil {
			s.logger.Error("Failed to flag parcel as assigned",
				"parcel_id", snap.ParcelID,
				"assignment_id", a.AssignmentID,
				"error", err)
		}

		s.dispatcher.Dispatch(notification.Message{
			To: snap.ReceiverPhoneNumber,
			Body: notification.ReceiverAssignmentMessage(
				snap.ReceiverName, r.Name, r.PhoneNumber, a.ConfirmationCode, snap.ParcelID),
		})
	}

	s.dispatcher.Dispatch(notification.Message{
		To:   r.PhoneNumber,
		Body: notification.RiderAssignmentMessage(r.Name, len(a.Parcels)),
	})

	s.publishEvent(ctx, producers.EventAssignmentCreated, a)

	s.logger.Info("Assignment created",
		"assignment_id", a.AssignmentID,
		"rider_id", r.UserID,
		"assigned", len(a.Parcels),
		"skipped", len(skipped),
		"amount", a.Amount,
	)

	return &CreateResult{
		AssignmentID:     a.AssignmentID,
		RiderPhoneNumber: r.PhoneNumber,
		AssignedParcels:  len(a.Parcels),
		SkippedParcels:   skipped,
	}, nil
}

// UpdateStatus applies a transition on the rider path
func (s *AssignmentServiceImpl) UpdateStatus(ctx context.Context, assignmentID string, update StatusUpdate, caller auth.Caller) (*assignment.Assignment, error) {
	return s.applyTransition(ctx, assignmentID, update, caller, false)
}

// OverrideStatus applies a transition on the manager path, skipping the
// confirmation-code check
func (s *AssignmentServiceImpl) OverrideStatus(ctx context.Context, assignmentID string, update StatusUpdate, caller auth.Caller) (*assignment.Assignment, error) {
	return s.applyTransition(ctx, assignmentID, update, caller, true)
}

func (s *AssignmentServiceImpl) applyTransition(ctx context.Context, assignmentID string, update StatusUpdate, caller auth.Caller, override bool) (*assignment.Assignment, error) {
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if override {
		if !caller.CanOverride() {
			return nil, auth.ErrForbidden
		}
	} else if a.Rider.RiderID != caller.ID {
		return nil, auth.ErrForbidden
	}

	// Token for the conditional write; concurrent transitions on the same
	// assignment serialise on it.
	expectedUpdatedAt := a.UpdatedAt

	switch update.Status {
	case assignment.StatusAccepted:
		if !a.Status.CanTransitionTo(assignment.StatusAccepted) {
			return nil, assignment.ErrInvalidTransition{From: a.Status, To: assignment.StatusAccepted}
		}
		a.Status = assignment.StatusAccepted
		a.AcceptedAt = time.Now().UnixMilli()

		if err := s.assignmentRepo.Update(ctx, a, expectedUpdatedAt); err != nil {
			return nil, err
		}

	case assignment.StatusDelivered:
		if !a.Status.CanTransitionTo(assignment.StatusDelivered) {
			return nil, assignment.ErrInvalidTransition{From: a.Status, To: assignment.StatusDelivered}
		}
		if !override && update.ConfirmationCode != a.ConfirmationCode {
			return nil, assignment.ErrInvalidCode
		}

		a.Status = assignment.StatusDelivered
		a.CompletedAt = time.Now().UnixMilli()
		a.PaymentMethod = update.PaymentMethod
		// Payed stays false: payment is recorded at reconciliation, where
		// the collected amount is known.

		if err := s.assignmentRepo.Update(ctx, a, expectedUpdatedAt); err != nil {
			return nil, err
		}

		s.markParcelsDelivered(ctx, a)

	case assignment.StatusCancelled:
		if !a.Status.CanTransitionTo(assignment.StatusCancelled) {
			return nil, assignment.ErrInvalidTransition{From: a.Status, To: assignment.StatusCancelled}
		}

		if update.ParcelID != "" {
			changed, err := s.cancelOneParcel(ctx, a, update, expectedUpdatedAt)
			if err != nil {
				return nil, err
			}
			if !changed {
				// Already cancelled: idempotent no-op
				return a, nil
			}
		} else {
			// Parcels cancelled earlier per-parcel already had their
			// counters bumped; only the still-active ones get one now.
			remaining := a.ActiveParcelIDs()
			s.cancelWholeBatch(a, update.CancelationReason)
			if err := s.assignmentRepo.Update(ctx, a, expectedUpdatedAt); err != nil {
				return nil, err
			}
			for _, parcelID := range remaining {
				s.recordParcelCancellation(ctx, a.AssignmentID, parcelID)
			}
		}

		s.bumpReasonCounter(ctx, update.CancelationReason)

	default:
		return nil, assignment.ErrInvalidTransition{From: a.Status, To: update.Status}
	}

	s.publishEvent(ctx, producers.EventAssignmentStatusChanged, a)

	s.logger.Info("Assignment status updated",
		"assignment_id", a.AssignmentID,
		"status", string(a.Status),
		"amount", a.Amount,
		"override", override,
	)

	return a, nil
}

// cancelOneParcel handles the per-parcel branch of a CANCELLED transition.
// The bool result reports whether anything changed.
func (s *AssignmentServiceImpl) cancelOneParcel(ctx context.Context, a *assignment.Assignment, update StatusUpdate, expectedUpdatedAt time.Time) (bool, error) {
	if a.FindParcel(update.ParcelID) == nil {
		return false, parcel.ErrNotFound{ParcelID: update.ParcelID}
	}

	_, changed := a.CancelParcel(update.ParcelID, update.CancelationReason)
	if !changed {
		return false, nil
	}

	if err := s.assignmentRepo.Update(ctx, a, expectedUpdatedAt); err != nil {
		return false, err
	}

	s.recordParcelCancellation(ctx, a.AssignmentID, update.ParcelID)
	return true, nil
}

func (s *AssignmentServiceImpl) cancelWholeBatch(a *assignment.Assignment, reasonText string) {
	for i := range a.Parcels {
		a.Parcels[i].Cancelled = true
	}
	a.Amount = 0
	a.Status = assignment.StatusCancelled
	a.CancelationReason = reasonText
}

// markParcelsDelivered syncs the parcel store after a DELIVERED write and
// notifies each parcel's driver. The assignment document is the source of
// truth; a sync failure here is logged and healed at reconciliation.
func (s *AssignmentServiceImpl) markParcelsDelivered(ctx context.Context, a *assignment.Assignment) {
	active := a.ActiveParcelIDs()
	if err := s.parcelStore.MarkDelivered(ctx, active); err != nil {
		s.logger.Error("Failed to flag parcels as delivered",
			"assignment_id", a.AssignmentID,
			"parcel_count", len(active),
			"error", err)
	}

	for _, parcelID := range active {
		p, err := s.parcelStore.FindByID(ctx, parcelID)
		if err != nil {
			s.logger.Warn("Could not load parcel for driver notification",
				"parcel_id", parcelID,
				"error", err)
			continue
		}
		if p.DriverPhoneNumber == "" {
			continue
		}
		s.dispatcher.Dispatch(notification.Message{
			To:   p.DriverPhoneNumber,
			Body: notification.ParcelStatusMessage(parcelID, string(assignment.StatusDelivered)),
		})
	}
}

// recordParcelCancellation syncs the parcel store after a cancellation
// write. Same policy as delivery: log, do not fail the transition.
func (s *AssignmentServiceImpl) recordParcelCancellation(ctx context.Context, assignmentID, parcelID string) {
	if err := s.parcelStore.RecordCancellation(ctx, parcelID); err != nil {
		s.logger.Error("Failed to record parcel cancellation",
			"assignment_id", assignmentID,
			"parcel_id", parcelID,
			"error", err)
	}
}

func (s *AssignmentServiceImpl) bumpReasonCounter(ctx context.Context, reasonText string) {
	if reasonText == "" {
		return
	}
	if err := s.reasonRepo.IncrementUsage(ctx, reasonText); err != nil {
		s.logger.Error("Failed to bump cancellation reason counter",
			"reason", reasonText,
			"error", err)
	}
}

// ResendConfirmationCode re-sends the receiver SMS for every non-cancelled
// parcel in the batch
func (s *AssignmentServiceImpl) ResendConfirmationCode(ctx context.Context, assignmentID string, caller auth.Caller) error {
	if !caller.CanManageDeliveries() {
		return auth.ErrForbidden
	}

	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}

	for _, snap := range a.Parcels {
		if snap.Cancelled {
			continue
		}
		s.dispatcher.Dispatch(notification.Message{
			To: snap.ReceiverPhoneNumber,
			Body: notification.ReceiverAssignmentMessage(
				snap.ReceiverName, a.Rider.RiderName, a.Rider.RiderPhoneNumber, a.ConfirmationCode, snap.ParcelID),
		})
	}

	return nil
}

// ListByOffice returns a page of the caller's office assignments
func (s *AssignmentServiceImpl) ListByOffice(ctx context.Context, filter assignment.OfficeFilter, page, perPage int, caller auth.Caller) ([]*assignment.Assignment, int64, error) {
	if !caller.CanManageDeliveries() {
		return nil, 0, auth.ErrForbidden
	}

	offset := (page - 1) * perPage
	return s.assignmentRepo.ListByOffice(ctx, caller.OfficeID, filter, perPage, offset)
}

// ListCancelled returns a page of the caller's office cancelled assignments
func (s *AssignmentServiceImpl) ListCancelled(ctx context.Context, page, perPage int, caller auth.Caller) ([]*assignment.Assignment, int64, error) {
	if !caller.CanManageDeliveries() {
		return nil, 0, auth.ErrForbidden
	}

	offset := (page - 1) * perPage
	return s.assignmentRepo.ListCancelledByOffice(ctx, caller.OfficeID, perPage, offset)
}

// ListForRider returns the authenticated rider's own assignments. The
// scope comes from the caller identity, never from a request parameter,
// so one rider can never read another rider's batches.
func (s *AssignmentServiceImpl) ListForRider(ctx context.Context, onlyUndelivered bool, receiverPhone string, caller auth.Caller) ([]*assignment.Assignment, error) {
	if !caller.IsRider() {
		return nil, auth.ErrForbidden
	}

	if receiverPhone != "" {
		return s.assignmentRepo.SearchByReceiverPhone(ctx, caller.ID, receiverPhone)
	}
	return s.assignmentRepo.ListByRider(ctx, caller.ID, onlyUndelivered)
}

// ListRiderByID is the front-desk view of one rider's assignments by
// payment flag
func (s *AssignmentServiceImpl) ListRiderByID(ctx context.Context, riderID string, payed bool, caller auth.Caller) ([]*assignment.Assignment, error) {
	if !caller.CanManageDeliveries() {
		return nil, auth.ErrForbidden
	}

	exists, err := s.riderLookup.Exists(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, rider.ErrNotFound{RiderID: riderID}
	}

	return s.assignmentRepo.ListByRiderAndPayed(ctx, riderID, payed)
}

func (s *AssignmentServiceImpl) ListCancelationReasons(ctx context.Context, caller auth.Caller) ([]*reason.CancelationReason, error) {
	if !caller.CanManageDeliveries() {
		return nil, auth.ErrForbidden
	}

	return s.reasonRepo.List(ctx)
}

func (s *AssignmentServiceImpl) publishEvent(ctx context.Context, name string, a *assignment.Assignment) {
	if s.events == nil {
		return
	}

	event := producers.AssignmentEvent{
		Name:         name,
		AssignmentID: a.AssignmentID,
		OfficeID:     a.OfficeID,
		RiderID:      a.Rider.RiderID,
		Status:       string(a.Status),
		Amount:       a.Amount,
		OccurredAt:   time.Now().UnixMilli(),
	}
	if err := s.events.Publish(ctx, a.AssignmentID, event); err != nil {
		s.logger.Error("Failed to publish assignment event",
			"event", name,
			"assignment_id", a.AssignmentID,
			"error", err)
	}
}

// generateConfirmationCode returns a six digit one-time code shared with
// the receiver at assignment time
func generateConfirmationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken;
		// fall back to a uuid-derived code rather than panicking.
		id := uuid.New()
		derived := binary.BigEndian.Uint32(id[:4]) % 1000000
		return fmt.Sprintf("%06d", derived)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
