package booking

import (
	"context"
	"time"

	"tourbooking/internal/adapter/link"
	"tourbooking/internal/adapter/order"
	"tourbooking/internal/domain"
	"tourbooking/internal/modules/availability"
)

type BookingStore interface {
	CreateBatch(ctx context.Context, bookings []domain.Booking) ([]domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, offeringID string, limit, offset int) ([]domain.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

// OfferingResolver maps catalog variant ids back to offering variants
// and loads offerings for validation and variant lookup.
type OfferingResolver interface {
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
	VariantByCatalogID(ctx context.Context, variantID string) (*domain.OfferingVariant, error)
}

// OrderGateway is the cart/order surface of the commerce framework.
type OrderGateway interface {
	RetrieveCart(ctx context.Context, id string) (*order.Cart, error)
	AddLineItems(ctx context.Context, cartID string, items []order.LineItemInput) (*order.Cart, error)
	CompleteCart(ctx context.Context, id string) (*order.Order, error)
	RetrieveOrder(ctx context.Context, id string) (*order.Order, error)
}

type LinkRegistry interface {
	CreateLinks(ctx context.Context, links []link.Link) error
	LeftIDsFor(ctx context.Context, leftType, rightType, rightID string) ([]string, error)
}

// Locker serializes concurrent completions of the same cart. The TTL
// releases the lock if the holder dies mid-workflow.
type Locker interface {
	Acquire(ctx context.Context, key string, timeout, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// Validator is the availability engine.
type Validator interface {
	ValidateBooking(ctx context.Context, offeringID string, date time.Time, quantity int) (availability.Result, error)
	GetAvailableCapacity(ctx context.Context, offeringID string, date time.Time) (int, error)
}
