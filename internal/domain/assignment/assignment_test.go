package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoParcelBatch() *Assignment {
	a := &Assignment{
		AssignmentID: "asg-1",
		Status:       StatusAssigned,
	}
	a.AddParcel(ParcelSnapshot{ParcelID: "p-1", Amount: 1000})
	a.AddParcel(ParcelSnapshot{ParcelID: "p-2", Amount: 1500})
	return a
}

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusAssigned, StatusAccepted, true},
		{StatusAssigned, StatusDelivered, true},
		{StatusAssigned, StatusCancelled, true},
		{StatusAccepted, StatusDelivered, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusAccepted, StatusAccepted, false},
		{StatusDelivered, StatusAccepted, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusDelivered, false},
		{StatusCompleted, StatusDelivered, false},
		// COMPLETED is only reachable through settlement
		{StatusAssigned, StatusCompleted, false},
		{StatusDelivered, StatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("DELIVERED")
	assert.NoError(t, err)
	assert.Equal(t, StatusDelivered, status)

	_, err = ParseStatus("SHIPPED")
	assert.Error(t, err)
}

func TestAssignment_AddParcel(t *testing.T) {
	a := twoParcelBatch()

	assert.Len(t, a.Parcels, 2)
	assert.Equal(t, int64(2500), a.Amount)
	assert.Equal(t, a.ActiveAmount(), a.Amount)

	// Cancelled snapshots never count toward the total
	a.AddParcel(ParcelSnapshot{ParcelID: "p-3", Amount: 9000, Cancelled: true})
	assert.Equal(t, int64(2500), a.Amount)
}

func TestAssignment_CancelParcel(t *testing.T) {
	t.Run("RemovesAmountAndKeepsBatchActive", func(t *testing.T) {
		a := twoParcelBatch()

		allCancelled, changed := a.CancelParcel("p-1", "receiver unreachable")

		assert.True(t, changed)
		assert.False(t, allCancelled)
		assert.Equal(t, StatusAssigned, a.Status)
		assert.Equal(t, int64(1500), a.Amount)
		assert.Equal(t, "receiver unreachable", a.CancelationReason)
		assert.Equal(t, a.ActiveAmount(), a.Amount)
	})

	t.Run("LastParcelPromotesToCancelled", func(t *testing.T) {
		a := twoParcelBatch()
		a.CancelParcel("p-1", "receiver unreachable")

		allCancelled, changed := a.CancelParcel("p-2", "moved away")

		assert.True(t, changed)
		assert.True(t, allCancelled)
		assert.Equal(t, StatusCancelled, a.Status)
		assert.Equal(t, int64(0), a.Amount)
	})

	t.Run("SecondCancelIsNoOp", func(t *testing.T) {
		a := twoParcelBatch()
		a.CancelParcel("p-1", "receiver unreachable")
		amountAfterFirst := a.Amount

		_, changed := a.CancelParcel("p-1", "receiver unreachable")

		assert.False(t, changed)
		assert.Equal(t, amountAfterFirst, a.Amount, "amount must not be deducted twice")
	})

	t.Run("UnknownParcelIsNoOp", func(t *testing.T) {
		a := twoParcelBatch()

		_, changed := a.CancelParcel("p-stranger", "typo")

		assert.False(t, changed)
		assert.Equal(t, int64(2500), a.Amount)
	})
}

func TestAssignment_ActiveParcelIDs(t *testing.T) {
	a := twoParcelBatch()
	a.CancelParcel("p-1", "receiver unreachable")

	assert.Equal(t, []string{"p-2"}, a.ActiveParcelIDs())
}

func TestAssignment_AllCancelled(t *testing.T) {
	a := &Assignment{}
	assert.False(t, a.AllCancelled(), "an empty batch is not considered cancelled")

	a = twoParcelBatch()
	assert.False(t, a.AllCancelled())
	a.CancelParcel("p-1", "x")
	a.CancelParcel("p-2", "x")
	assert.True(t, a.AllCancelled())
}

func TestErrNotFound_Is(t *testing.T) {
	err := ErrNotFound{AssignmentID: "asg-1"}

	assert.ErrorIs(t, err, ErrNotFound{})
	assert.ErrorIs(t, err, ErrNotFound{AssignmentID: "asg-1"})
	assert.NotErrorIs(t, err, ErrNotFound{AssignmentID: "asg-2"})
}

func TestErrInvalidTransition_Is(t *testing.T) {
	err := ErrInvalidTransition{From: StatusDelivered, To: StatusAccepted}

	assert.ErrorIs(t, err, ErrInvalidTransition{})
	assert.NotErrorIs(t, err, ErrNotFound{})
}
