package reconciliation

// Type distinguishes who the settlement is against
type Type string

const (
	// TypeRider settles money owed by/to a rider for home deliveries
	TypeRider Type = "RIDER"
)

// Record is one ledger entry per settled assignment. At most one active
// record exists per assignment id; re-settlement updates it in place.
type Record struct {
	ID               string `json:"id" bson:"_id"`
	AssignmentID     string `json:"assignment_id" bson:"assignmentId"`
	PayedTo          string `json:"payed_to" bson:"payedTo"`
	Type             Type   `json:"type" bson:"type"`
	RiderID          string `json:"rider_id" bson:"riderId"`
	RiderName        string `json:"rider_name" bson:"riderName"`
	RiderPhoneNumber string `json:"rider_phone_number" bson:"riderPhoneNumber"`
	OfficeID         string `json:"office_id" bson:"officeId"`
	// ParcelID keeps the first parcel of the batch for readers that still
	// expect the single-parcel record shape.
	ParcelID       string `json:"parcel_id,omitempty" bson:"parcelId,omitempty"`
	ExpectedAmount int64  `json:"expected_amount" bson:"expectedAmount"` // Stored in minor units
	PayedAmount    int64  `json:"payed_amount" bson:"payedAmount"`
	IsCompleted    bool   `json:"is_completed" bson:"isCompleted"`
	CreatedAt      int64  `json:"created_at" bson:"createdAt"`
	ReconciledAt   int64  `json:"reconciled_at" bson:"reconciledAt"`
}
