package notification

import "fmt"

// ReceiverAssignmentMessage is sent to a parcel receiver when their parcel
// is handed to a rider, carrying the delivery confirmation code.
func ReceiverAssignmentMessage(receiverName, riderName, riderPhone, confirmationCode, parcelID string) string {
	return fmt.Sprintf(
		"Hello %s, your parcel %s is out for delivery with %s (%s). Share code %s with the rider only on delivery.",
		receiverName, parcelID, riderName, riderPhone, confirmationCode,
	)
}

// RiderAssignmentMessage summarises a new batch for the rider
func RiderAssignmentMessage(riderName string, parcelCount int) string {
	return fmt.Sprintf(
		"Hello %s, you have been assigned %d new parcels for delivery. Please check your dashboard for details.",
		riderName, parcelCount,
	)
}

// ParcelStatusMessage informs a parcel's driver of a status change
func ParcelStatusMessage(parcelID, status string) string {
	return fmt.Sprintf("The status of your parcel with code %s has been updated to: %s", parcelID, status)
}
