package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbooking/internal/domain"
	"tourbooking/internal/repository"
)

// Result is the outcome of a booking validation. Reason is set only when
// Valid is false and distinguishes past date, unoffered date and
// insufficient capacity.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type Service struct {
	offerings OfferingStore
	bookings  BookingCounter
}

func NewService(offerings OfferingStore, bookings BookingCounter) *Service {
	return &Service{offerings: offerings, bookings: bookings}
}

// GetAvailableCapacity returns max_capacity minus the seats held by
// pending and confirmed bookings on that day. The result may be negative
// when a race overbooked the offering; callers get the raw number.
func (s *Service) GetAvailableCapacity(ctx context.Context, offeringID string, date time.Time) (int, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	held, err := s.bookings.CountActivePassengers(ctx, offeringID, date)
	if err != nil {
		return 0, err
	}

	return offering.MaxCapacity - held, nil
}

// ValidateBooking checks whether quantity more passengers fit on the
// offering at the given date. Read-only and safe to call repeatedly; the
// check is not atomic with any subsequent insert, so two concurrent
// callers can both pass and overbook.
func (s *Service) ValidateBooking(ctx context.Context, offeringID string, date time.Time, quantity int) (Result, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}

	today, _ := domain.DayWindow(time.Now())
	requested, _ := domain.DayWindow(date)
	if requested.Before(today) {
		return Result{Valid: false, Reason: fmt.Sprintf("Cannot book %ss for past dates", offering.Kind)}, nil
	}

	if !s.dateOffered(offering, date) {
		return Result{Valid: false, Reason: fmt.Sprintf("%s is not available on the requested date", title(offering.Kind))}, nil
	}

	capacity, err := s.GetAvailableCapacity(ctx, offeringID, date)
	if err != nil {
		return Result{}, err
	}
	if capacity < quantity {
		return Result{Valid: false, Reason: fmt.Sprintf("Only %d spots available", capacity)}, nil
	}

	return Result{Valid: true}, nil
}

// dateOffered canonicalizes both the request and every stored entry to a
// UTC day string before comparing, so callers in different timezones and
// rows written with timestamps all match on the calendar day.
func (s *Service) dateOffered(offering *domain.Offering, date time.Time) bool {
	want := domain.DateKey(date)
	for _, raw := range offering.AvailableDates {
		parsed, err := domain.ParseDateKey(raw)
		if err != nil {
			continue
		}
		if domain.DateKey(parsed) == want {
			return true
		}
	}
	return false
}

func title(k domain.Kind) string {
	if k == domain.KindPackage {
		return "Package"
	}
	return "Tour"
}
