package handler

import (
	"time"

	"github.com/MhisterKhing6/shortly/internal/domain/assignment"
	"github.com/MhisterKhing6/shortly/internal/domain/reason"
)

// CreateAssignmentRequest represents a request to assign a parcel batch to a rider
type CreateAssignmentRequest struct {
	RiderID   string   `json:"rider_id" binding:"required"`
	ParcelIDs []string `json:"parcel_ids" binding:"required,min=1"`
}

// CreateAssignmentResponse reports the outcome of a batch creation
type CreateAssignmentResponse struct {
	AssignmentID     string   `json:"assignment_id"`
	RiderPhoneNumber string   `json:"rider_phone_number"`
	AssignedParcels  int      `json:"assigned_parcels"`
	SkippedParcels   []string `json:"skipped_parcels,omitempty"`
}

// UpdateStatusRequest represents a requested status transition
type UpdateStatusRequest struct {
	Status            string `json:"status" binding:"required,oneof=ACCEPTED DELIVERED CANCELLED"`
	ConfirmationCode  string `json:"confirmation_code,omitempty"`
	CancelationReason string `json:"cancelation_reason,omitempty"`
	ParcelID          string `json:"parcel_id,omitempty"`
	PaymentMethod     string `json:"payment_method,omitempty"`
}

// ReconcileRequest represents a bulk settlement sheet
type ReconcileRequest struct {
	AssignmentIDs []string `json:"assignment_ids" binding:"required,min=1"`
	SettledAt     string   `json:"settled_at,omitempty"` // RFC3339, defaults to now
}

// ReconcileResponse reports which ids were settled and which were skipped
type ReconcileResponse struct {
	Settled []string `json:"settled"`
	Skipped []string `json:"skipped,omitempty"`
}

// ReconcileOneRequest settles a single assignment with an explicit amount.
// PayedAmount is a pointer so an explicit zero still passes the required
// check while an omitted field is rejected.
type ReconcileOneRequest struct {
	PayedAmount *int64 `json:"payed_amount" binding:"required,min=0"` // Minor units
	SettledAt   string `json:"settled_at,omitempty"`                  // RFC3339, defaults to now
}

// ParcelResponse represents a parcel snapshot in API responses
type ParcelResponse struct {
	ParcelID            string `json:"parcel_id"`
	Description         string `json:"description,omitempty"`
	ReceiverName        string `json:"receiver_name"`
	ReceiverPhoneNumber string `json:"receiver_phone_number"`
	ReceiverAddress     string `json:"receiver_address,omitempty"`
	SenderName          string `json:"sender_name,omitempty"`
	SenderPhoneNumber   string `json:"sender_phone_number,omitempty"`
	Amount              int64  `json:"amount"`
	Cancelled           bool   `json:"cancelled"`
}

// AssignmentResponse represents an assignment in API responses. The
// confirmation code is deliberately absent: it reaches the receiver over
// SMS only.
type AssignmentResponse struct {
	AssignmentID      string           `json:"assignment_id"`
	RiderID           string           `json:"rider_id"`
	RiderName         string           `json:"rider_name"`
	RiderPhoneNumber  string           `json:"rider_phone_number"`
	OfficeID          string           `json:"office_id"`
	Parcels           []ParcelResponse `json:"parcels"`
	Status            string           `json:"status"`
	Amount            int64            `json:"amount"`
	Payed             bool             `json:"payed"`
	PaymentMethod     string           `json:"payment_method,omitempty"`
	CancelationReason string           `json:"cancelation_reason,omitempty"`
	AssignedAt        int64            `json:"assigned_at"`
	AcceptedAt        int64            `json:"accepted_at,omitempty"`
	CompletedAt       int64            `json:"completed_at,omitempty"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
}

// StatsResponse represents office settlement statistics
type StatsResponse struct {
	Period             string `json:"period"`
	CompletedCount     int64  `json:"completed_count"`
	NotCompletedCount  int64  `json:"not_completed_count"`
	CompletedAmount    int64  `json:"completed_amount"`
	NotCompletedAmount int64  `json:"not_completed_amount"`
	TotalCount         int64  `json:"total_count"`
	TotalAmount        int64  `json:"total_amount"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// mapAssignmentToResponse maps an assignment to its response DTO
func mapAssignmentToResponse(a *assignment.Assignment) AssignmentResponse {
	parcels := make([]ParcelResponse, 0, len(a.Parcels))
	for _, p := range a.Parcels {
		parcels = append(parcels, ParcelResponse{
			ParcelID:            p.ParcelID,
			Description:         p.Description,
			ReceiverName:        p.ReceiverName,
			ReceiverPhoneNumber: p.ReceiverPhoneNumber,
			ReceiverAddress:     p.ReceiverAddress,
			SenderName:          p.SenderName,
			SenderPhoneNumber:   p.SenderPhoneNumber,
			Amount:              p.Amount,
			Cancelled:           p.Cancelled,
		})
	}

	return AssignmentResponse{
		AssignmentID:      a.AssignmentID,
		RiderID:           a.Rider.RiderID,
		RiderName:         a.Rider.RiderName,
		RiderPhoneNumber:  a.Rider.RiderPhoneNumber,
		OfficeID:          a.OfficeID,
		Parcels:           parcels,
		Status:            string(a.Status),
		Amount:            a.Amount,
		Payed:             a.Payed,
		PaymentMethod:     a.PaymentMethod,
		CancelationReason: a.CancelationReason,
		AssignedAt:        a.AssignedAt,
		AcceptedAt:        a.AcceptedAt,
		CompletedAt:       a.CompletedAt,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAssignmentsToResponse(assignments []*assignment.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, mapAssignmentToResponse(a))
	}
	return out
}

// ReasonResponse represents a cancellation reason and its usage count
type ReasonResponse struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

func mapReasonsToResponse(reasons []*reason.CancelationReason) []ReasonResponse {
	out := make([]ReasonResponse, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, ReasonResponse{Reason: r.Reason, Count: r.Count})
	}
	return out
}
