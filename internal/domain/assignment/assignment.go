package assignment

import (
	"errors"
	"time"
)

// Status defines the delivery lifecycle states of an assignment
type Status string

const (
	StatusAssigned  Status = "ASSIGNED"
	StatusAccepted  Status = "ACCEPTED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus converts a string to a Status, rejecting unknown values
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAssigned, StatusAccepted, StatusDelivered, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", errors.New("unknown delivery status: " + s)
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// COMPLETED is reachable only through reconciliation, never through a status
// update request, so it is not listed here.
func (s Status) CanTransitionTo(next Status) bool {
	switch next {
	case StatusAccepted:
		return s == StatusAssigned
	case StatusDelivered:
		return s == StatusAssigned || s == StatusAccepted
	case StatusCancelled:
		return s == StatusAssigned || s == StatusAccepted
	}
	return false
}

// RiderSnapshot is the rider's identity captured at assignment-creation time.
// It deliberately does not follow later profile edits: the assignment must
// reflect who was responsible when the batch was handed over.
type RiderSnapshot struct {
	RiderID          string `json:"rider_id" bson:"riderId"`
	RiderName        string `json:"rider_name" bson:"riderName"`
	RiderPhoneNumber string `json:"rider_phone_number" bson:"riderPhoneNumber"`
}

// ParcelSnapshot is an immutable copy of the parcel fields relevant to a
// delivery run, embedded in the assignment document.
type ParcelSnapshot struct {
	ParcelID            string `json:"parcel_id" bson:"parcelId"`
	Description         string `json:"description" bson:"parcelDescription"`
	ReceiverName        string `json:"receiver_name" bson:"receiverName"`
	ReceiverPhoneNumber string `json:"receiver_phone_number" bson:"receiverPhoneNumber"`
	ReceiverAddress     string `json:"receiver_address" bson:"receiverAddress"`
	SenderName          string `json:"sender_name" bson:"senderName"`
	SenderPhoneNumber   string `json:"sender_phone_number" bson:"senderPhoneNumber"`
	Amount              int64  `json:"amount" bson:"amount"` // Stored in minor units
	Cancelled           bool   `json:"cancelled" bson:"cancelled"`
}

// Assignment is the aggregate pairing one rider with a batch of parcels.
// Amount always equals the sum of non-cancelled parcel amounts.
type Assignment struct {
	AssignmentID      string           `json:"assignment_id" bson:"assignmentId"`
	Rider             RiderSnapshot    `json:"rider" bson:"riderInfo"`
	OfficeID          string           `json:"office_id" bson:"officeId"`
	Parcels           []ParcelSnapshot `json:"parcels" bson:"parcels"`
	Status            Status           `json:"status" bson:"status"`
	Amount            int64            `json:"amount" bson:"amount"`
	ConfirmationCode  string           `json:"-" bson:"confirmationCode"`
	Payed             bool             `json:"payed" bson:"payed"`
	PaymentMethod     string           `json:"payment_method,omitempty" bson:"paymentMethod,omitempty"`
	CancelationReason string           `json:"cancelation_reason,omitempty" bson:"cancelationReason,omitempty"`
	AssignedAt        int64            `json:"assigned_at" bson:"assignedAt"`
	AcceptedAt        int64            `json:"accepted_at,omitempty" bson:"acceptedAt,omitempty"`
	CompletedAt       int64            `json:"completed_at,omitempty" bson:"completedAt,omitempty"`
	CreatedAt         time.Time        `json:"created_at" bson:"createdAt"`
	UpdatedAt         time.Time        `json:"updated_at" bson:"updatedAt"`
}

// AddParcel appends a snapshot to the batch and accumulates its amount
func (a *Assignment) AddParcel(p ParcelSnapshot) {
	a.Parcels = append(a.Parcels, p)
	if !p.Cancelled {
		a.Amount += p.Amount
	}
}

// FindParcel returns the snapshot with the given parcel id, or nil
func (a *Assignment) FindParcel(parcelID string) *ParcelSnapshot {
	for i := range a.Parcels {
		if a.Parcels[i].ParcelID == parcelID {
			return &a.Parcels[i]
		}
	}
	return nil
}

// ActiveParcelIDs returns the ids of all non-cancelled parcels in the batch
func (a *Assignment) ActiveParcelIDs() []string {
	ids := make([]string, 0, len(a.Parcels))
	for _, p := range a.Parcels {
		if !p.Cancelled {
			ids = append(ids, p.ParcelID)
		}
	}
	return ids
}

// CancelParcel marks one parcel in the batch as cancelled and keeps the
// aggregate consistent: the parcel amount leaves the total, and the
// assignment itself moves to CANCELLED once no active parcel remains.
// Cancelling an already-cancelled parcel is a no-op; the second return
// value reports whether anything changed.
func (a *Assignment) CancelParcel(parcelID, reason string) (allCancelled bool, changed bool) {
	p := a.FindParcel(parcelID)
	if p == nil || p.Cancelled {
		return a.AllCancelled(), false
	}

	p.Cancelled = true
	a.Amount -= p.Amount
	a.CancelationReason = reason

	if a.AllCancelled() {
		a.Status = StatusCancelled
		return true, true
	}
	return false, true
}

// AllCancelled reports whether every parcel in the batch is cancelled
func (a *Assignment) AllCancelled() bool {
	for _, p := range a.Parcels {
		if !p.Cancelled {
			return false
		}
	}
	return len(a.Parcels) > 0
}

// ActiveAmount recomputes the sum of non-cancelled parcel amounts. Used to
// verify the Amount field stayed consistent after a mutation.
func (a *Assignment) ActiveAmount() int64 {
	var total int64
	for _, p := range a.Parcels {
		if !p.Cancelled {
			total += p.Amount
		}
	}
	return total
}
