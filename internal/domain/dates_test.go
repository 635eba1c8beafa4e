package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey_CanonicalizesToUTCDay(t *testing.T) {
	lima := time.FixedZone("America/Lima", -5*3600)
	// 23:00 in Lima is already the next day in UTC.
	late := time.Date(2027, 3, 14, 23, 0, 0, 0, lima)

	assert.Equal(t, "2027-03-15", DateKey(late))
}

func TestParseDateKey_AcceptsDayAndTimestamp(t *testing.T) {
	day, err := ParseDateKey("2027-03-15")
	assert.NoError(t, err)
	assert.Equal(t, "2027-03-15", DateKey(day))

	ts, err := ParseDateKey("2027-03-15T09:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "2027-03-15", DateKey(ts))

	_, err = ParseDateKey("15/03/2027")
	assert.Error(t, err)
}

func TestBookingPassengers_SumsQuantities(t *testing.T) {
	b := Booking{LineItems: []BookingLineItem{
		{Quantity: 2},
		{Quantity: 1},
		{Quantity: 0}, // legacy rows without a quantity count as one seat
	}}

	assert.Equal(t, 4, b.Passengers())
}
