package rider

import "context"

// Rider is the read-only projection of a user with the RIDER role. User
// management lives outside the engine; this is just what assignment
// creation needs to snapshot.
type Rider struct {
	UserID      string `json:"user_id" bson:"userId"`
	Name        string `json:"name" bson:"name"`
	PhoneNumber string `json:"phone_number" bson:"phoneNumber"`
	Role        string `json:"role" bson:"role"`
	OfficeID    string `json:"office_id" bson:"officeId"`
}

// Lookup resolves riders by id
type Lookup interface {
	// FindByID retrieves a rider. Returns ErrNotFound if absent or if the
	// user exists but is not a rider.
	FindByID(ctx context.Context, riderID string) (*Rider, error)

	// Exists reports whether a rider with the given id exists.
	Exists(ctx context.Context, riderID string) (bool, error)
}

// ErrNotFound indicates a missing rider
type ErrNotFound struct {
	RiderID string
}

func (e ErrNotFound) Error() string {
	return "rider not found: " + e.RiderID
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	if t.RiderID == "" {
		return true
	}
	return e.RiderID == t.RiderID
}
