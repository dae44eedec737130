package parcel

import "time"

// Parcel is the office-intake record for one package. The engine reads
// parcels to build assignments and only ever mutates the delivery flags
// (Delivered, Assigned, CancellationCount); intake and contact edits
// belong to the front-desk surface, not here.
type Parcel struct {
	ParcelID            string    `json:"parcel_id" bson:"parcelId"`
	Description         string    `json:"description" bson:"parcelDescription"`
	ReceiverName        string    `json:"receiver_name" bson:"receiverName"`
	ReceiverPhoneNumber string    `json:"receiver_phone_number" bson:"receiverPhoneNumber"`
	ReceiverAddress     string    `json:"receiver_address" bson:"receiverAddress"`
	SenderName          string    `json:"sender_name" bson:"senderName"`
	SenderPhoneNumber   string    `json:"sender_phone_number" bson:"senderPhoneNumber"`
	DriverPhoneNumber   string    `json:"driver_phone_number" bson:"driverPhoneNumber"`
	OfficeID            string    `json:"office_id" bson:"officeId"`
	DeliveryCost        int64     `json:"delivery_cost" bson:"deliveryCost"` // Stored in minor units
	InboundCost         int64     `json:"inbound_cost" bson:"inboundCost"`
	HasCalled           bool      `json:"has_called" bson:"hasCalled"`
	HomeDelivery        bool      `json:"home_delivery" bson:"homeDelivery"`
	Delivered           bool      `json:"delivered" bson:"delivered"`
	Assigned            bool      `json:"assigned" bson:"parcelAssigned"`
	CancellationCount   int       `json:"cancellation_count" bson:"cancellationCount"`
	CreatedAt           time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updated_at" bson:"updatedAt"`
}

// EligibleForHomeDelivery reports whether the receiver has been called and
// opted for home delivery. Ineligible parcels are skipped during batch
// creation, not rejected.
func (p *Parcel) EligibleForHomeDelivery() bool {
	return p.HasCalled && p.HomeDelivery
}

// DeliveryAmount is what the rider collects for this parcel
func (p *Parcel) DeliveryAmount() int64 {
	return p.DeliveryCost + p.InboundCost
}
