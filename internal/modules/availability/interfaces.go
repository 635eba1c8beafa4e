package availability

import (
	"context"
	"time"

	"tourbooking/internal/domain"
)

// OfferingStore resolves offerings with their available date lists.
type OfferingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
}

// BookingCounter reports how many seats are already held against an
// offering on a given day by pending and confirmed bookings.
type BookingCounter interface {
	CountActivePassengers(ctx context.Context, offeringID string, date time.Time) (int, error)
}
