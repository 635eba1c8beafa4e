package domain

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ValidBookingStatus reports whether s is one of the four allowed values.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// BookingLineItem is one variant reference folded into a booking. The
// whole travel party of a group is snapshotted as a list of these.
type BookingLineItem struct {
	VariantID         string        `json:"variant_id"`
	OfferingVariantID string        `json:"offering_variant_id"`
	PassengerType     PassengerType `json:"passenger_type"`
	Quantity          int           `json:"quantity"`
	PassengerName     string        `json:"passenger_name,omitempty"`
}

// Booking is one reservation record: the line items of one travel party
// for one offering on one date. Many bookings may share an order.
type Booking struct {
	ID           string                               `json:"id" gorm:"primaryKey"`
	OrderID      string                               `json:"order_id" gorm:"index"`
	OfferingID   string                               `json:"offering_id" gorm:"index"`
	LineItems    datatypes.JSONSlice[BookingLineItem] `json:"line_items"`
	OfferingDate time.Time                            `json:"offering_date"`
	Status       BookingStatus                        `json:"status" gorm:"default:pending"`
	CreatedAt    time.Time                            `json:"created_at"`
	UpdatedAt    time.Time                            `json:"updated_at"`
}

// Passengers is the seat count this booking holds against capacity.
// A booking without line items still occupies one seat.
func (b *Booking) Passengers() int {
	n := 0
	for _, li := range b.LineItems {
		n += li.Quantity
	}
	if n == 0 {
		n = 1
	}
	return n
}
