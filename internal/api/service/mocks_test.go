package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
	"github.com/MhisterKhing6/shortly/internal/domain/parcel"
	"github.com/MhisterKhing6/shortly/internal/domain/reason"
	"github.com/MhisterKhing6/shortly/internal/domain/reconciliation"
	"github.com/MhisterKhing6/shortly/internal/domain/rider"
	"github.com/MhisterKhing6/shortly/internal/platform/notification"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, assignmentID string) (*assignment.Assignment, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment, expectedUpdatedAt time.Time) error {
	args := m.Called(ctx, a, expectedUpdatedAt)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ListByOffice(ctx context.Context, officeID string, filter assignment.OfficeFilter, limit, offset int) ([]*assignment.Assignment, int64, error) {
	args := m.Called(ctx, officeID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*assignment.Assignment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssignmentRepository) ListCancelledByOffice(ctx context.Context, officeID string, limit, offset int) ([]*assignment.Assignment, int64, error) {
	args := m.Called(ctx, officeID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*assignment.Assignment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssignmentRepository) ListByRider(ctx context.Context, riderID string, onlyUndelivered bool) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, riderID, onlyUndelivered)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByRiderAndPayed(ctx context.Context, riderID string, payed bool) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, riderID, payed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) SearchByReceiverPhone(ctx context.Context, riderID, receiverPhone string) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, riderID, receiverPhone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) MarkSettled(ctx context.Context, assignmentIDs []string) (int64, error) {
	args := m.Called(ctx, assignmentIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) OutstandingTotals(ctx context.Context, officeID string, since time.Time) (int64, int64, error) {
	args := m.Called(ctx, officeID, since)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockParcelStore struct {
	mock.Mock
}

func (m *MockParcelStore) FindByID(ctx context.Context, parcelID string) (*parcel.Parcel, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelStore) SetAssigned(ctx context.Context, parcelID string, assigned bool) error {
	args := m.Called(ctx, parcelID, assigned)
	return args.Error(0)
}

func (m *MockParcelStore) MarkDelivered(ctx context.Context, parcelIDs []string) error {
	args := m.Called(ctx, parcelIDs)
	return args.Error(0)
}

func (m *MockParcelStore) RecordCancellation(ctx context.Context, parcelID string) error {
	args := m.Called(ctx, parcelID)
	return args.Error(0)
}

type MockRiderLookup struct {
	mock.Mock
}

func (m *MockRiderLookup) FindByID(ctx context.Context, riderID string) (*rider.Rider, error) {
	args := m.Called(ctx, riderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderLookup) Exists(ctx context.Context, riderID string) (bool, error) {
	args := m.Called(ctx, riderID)
	return args.Bool(0), args.Error(1)
}

type MockReasonRepository struct {
	mock.Mock
}

func (m *MockReasonRepository) IncrementUsage(ctx context.Context, reasonText string) error {
	args := m.Called(ctx, reasonText)
	return args.Error(0)
}

func (m *MockReasonRepository) List(ctx context.Context) ([]*reason.CancelationReason, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reason.CancelationReason), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(msg notification.Message) {
	m.Called(msg)
}

func (m *MockDispatcher) Shutdown() {
	m.Called()
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) Upsert(ctx context.Context, record *reconciliation.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockReconciliationRepository) GetByAssignmentID(ctx context.Context, assignmentID string) (*reconciliation.Record, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Record), args.Error(1)
}

func (m *MockReconciliationRepository) ListByRider(ctx context.Context, riderID string, limit, offset int) ([]*reconciliation.Record, error) {
	args := m.Called(ctx, riderID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reconciliation.Record), args.Error(1)
}

func (m *MockReconciliationRepository) CompletedTotals(ctx context.Context, officeID string, since time.Time) (int64, int64, error) {
	args := m.Called(ctx, officeID, since)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context, officeID string, period reconciliation.Period) (*reconciliation.Stats, bool) {
	args := m.Called(ctx, officeID, period)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*reconciliation.Stats), args.Bool(1)
}

func (m *MockStatsCache) Set(ctx context.Context, officeID string, period reconciliation.Period, stats *reconciliation.Stats) {
	m.Called(ctx, officeID, period, stats)
}
