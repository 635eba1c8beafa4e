package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbooking/internal/adapter/order"
	"tourbooking/internal/domain"
	"tourbooking/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	bookings  BookingStore
	offerings OfferingResolver
	orders    OrderGateway
	links     LinkRegistry
	lock      Locker
	validator Validator
	log       *logrus.Logger
}

func NewService(
	bookings BookingStore,
	offerings OfferingResolver,
	orders OrderGateway,
	links LinkRegistry,
	lock Locker,
	validator Validator,
	log *logrus.Logger,
) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		bookings:  bookings,
		offerings: offerings,
		orders:    orders,
		links:     links,
		lock:      lock,
		validator: validator,
		log:       log,
	}
}

// CreateBookings is the direct batch endpoint: one input record per
// passenger, persisted as one booking row each, all in one insert.
func (s *Service) CreateBookings(ctx context.Context, inputs []CreateBookingInput) ([]domain.Booking, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: bookings array is required and must contain at least one booking", ErrValidation)
	}

	toCreate := make([]domain.Booking, 0, len(inputs))
	for _, in := range inputs {
		if field := firstMissingField(in); field != "" {
			return nil, fmt.Errorf("%w: each booking must include %s", ErrValidation, field)
		}
		date, err := domain.ParseDateKey(in.OfferingDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid offering_date %q", ErrValidation, in.OfferingDate)
		}

		toCreate = append(toCreate, domain.Booking{
			OrderID:      in.OrderID,
			OfferingID:   in.OfferingID,
			OfferingDate: date,
			Status:       domain.BookingPending,
			LineItems: []domain.BookingLineItem{{
				OfferingVariantID: in.OfferingVariantID,
				Quantity:          1,
				PassengerName:     in.PassengerName,
			}},
		})
	}

	return s.bookings.CreateBatch(ctx, toCreate)
}

func firstMissingField(in CreateBookingInput) string {
	switch {
	case in.OfferingID == "":
		return "offering_id"
	case in.OfferingVariantID == "":
		return "offering_variant_id"
	case in.PassengerName == "":
		return "passenger_name"
	case in.OfferingDate == "":
		return "offering_date"
	case in.OrderID == "":
		return "order_id"
	}
	return ""
}

func (s *Service) List(ctx context.Context, offeringID string, limit, offset int) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, offeringID, limit, offset)
}

// EnrichedBooking carries the linked order when it could be fetched.
type EnrichedBooking struct {
	domain.Booking
	Order *order.Order `json:"order,omitempty"`
}

// GetByID loads a booking and best-effort enriches it with its order.
// An order fetch failure is logged and the order field stays empty.
func (s *Service) GetByID(ctx context.Context, id string) (*EnrichedBooking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	out := &EnrichedBooking{Booking: *b}
	if b.OrderID != "" {
		o, err := s.orders.RetrieveOrder(ctx, b.OrderID)
		if err != nil {
			s.log.WithError(err).WithField("order_id", b.OrderID).
				Warn("could not fetch linked order for booking")
		} else {
			out.Order = o
		}
	}
	return out, nil
}

// UpdateStatus moves a booking to one of the four statuses. Capacity is
// affected implicitly: cancelled and completed bookings stop counting.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !domain.ValidBookingStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// metadata keys on cart line items, written by AddCartItems and read by
// the assembly workflow.
const (
	metaGroupID       = "group_id"
	metaOfferingID    = "offering_id"
	metaOfferingDate  = "offering_date"
	metaPassengerType = "passenger_type"
	metaCustomerName  = "customer_name"
)

func metaString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func parseDate(s string) (time.Time, error) {
	return domain.ParseDateKey(s)
}
