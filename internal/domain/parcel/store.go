package parcel

import "context"

// Store is the engine's view of the parcel collection. Only the delivery
// flags are writable through it.
type Store interface {
	// FindByID retrieves a parcel. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, parcelID string) (*Parcel, error)

	// SetAssigned flips the assignment flag on one parcel.
	SetAssigned(ctx context.Context, parcelID string, assigned bool) error

	// MarkDelivered sets delivered=true on every listed parcel.
	MarkDelivered(ctx context.Context, parcelIDs []string) error

	// RecordCancellation increments the parcel's cancellation counter and
	// clears its delivered/assigned flags so it can be re-dispatched.
	RecordCancellation(ctx context.Context, parcelID string) error
}

// ErrNotFound indicates a missing parcel
type ErrNotFound struct {
	ParcelID string
}

func (e ErrNotFound) Error() string {
	return "parcel not found: " + e.ParcelID
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	if t.ParcelID == "" {
		return true
	}
	return e.ParcelID == t.ParcelID
}
