package availability

import (
	"context"
	"testing"
	"time"

	"tourbooking/internal/domain"
	"tourbooking/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type MockOfferingStore struct {
	mock.Mock
}

func (m *MockOfferingStore) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offering), args.Error(1)
}

type MockBookingCounter struct {
	mock.Mock
}

func (m *MockBookingCounter) CountActivePassengers(ctx context.Context, offeringID string, date time.Time) (int, error) {
	args := m.Called(ctx, offeringID, date)
	return args.Int(0), args.Error(1)
}

func futureDate() time.Time {
	return time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
}

func offeringOn(dates ...string) *domain.Offering {
	return &domain.Offering{
		ID:             "tour_cusco",
		Kind:           domain.KindTour,
		MaxCapacity:    10,
		AvailableDates: datatypes.JSONSlice[string](dates),
	}
}

func TestValidateBooking_PastDate(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	mockBookings := new(MockBookingCounter)
	service := NewService(mockOfferings, mockBookings)

	past := time.Now().UTC().AddDate(0, 0, -2)
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").
		Return(offeringOn(domain.DateKey(past)), nil)

	result, err := service.ValidateBooking(context.Background(), "tour_cusco", past, 2)

	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Cannot book tours for past dates", result.Reason)
	mockBookings.AssertNotCalled(t, "CountActivePassengers", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateBooking_PastDate_PackageWording(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	service := NewService(mockOfferings, new(MockBookingCounter))

	past := time.Now().UTC().AddDate(0, 0, -2)
	pkg := offeringOn(domain.DateKey(past))
	pkg.Kind = domain.KindPackage
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").Return(pkg, nil)

	result, err := service.ValidateBooking(context.Background(), "tour_cusco", past, 1)

	assert.NoError(t, err)
	assert.Equal(t, "Cannot book packages for past dates", result.Reason)
}

func TestValidateBooking_DateNotOffered(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	mockBookings := new(MockBookingCounter)
	service := NewService(mockOfferings, mockBookings)

	date := futureDate()
	other := date.AddDate(0, 0, 7)
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").
		Return(offeringOn(domain.DateKey(other)), nil)

	result, err := service.ValidateBooking(context.Background(), "tour_cusco", date, 2)

	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Tour is not available on the requested date", result.Reason)
}

func TestValidateBooking_DateMatchesAcrossFormats(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	mockBookings := new(MockBookingCounter)
	service := NewService(mockOfferings, mockBookings)

	date := futureDate()
	// Stored as a full RFC3339 timestamp, requested as a plain day.
	stored := date.Add(9 * time.Hour).Format(time.RFC3339)
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").Return(offeringOn(stored), nil)
	mockBookings.On("CountActivePassengers", mock.Anything, "tour_cusco", date).Return(0, nil)

	result, err := service.ValidateBooking(context.Background(), "tour_cusco", date, 2)

	assert.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateBooking_ExactFit(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	mockBookings := new(MockBookingCounter)
	service := NewService(mockOfferings, mockBookings)

	date := futureDate()
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").
		Return(offeringOn(domain.DateKey(date)), nil)
	mockBookings.On("CountActivePassengers", mock.Anything, "tour_cusco", date).Return(0, nil)

	// 10 passengers on a 10-seat offering fill it exactly.
	result, err := service.ValidateBooking(context.Background(), "tour_cusco", date, 10)

	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Reason)
}

func TestValidateBooking_OverCapacity(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	mockBookings := new(MockBookingCounter)
	service := NewService(mockOfferings, mockBookings)

	date := futureDate()
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").
		Return(offeringOn(domain.DateKey(date)), nil)
	mockBookings.On("CountActivePassengers", mock.Anything, "tour_cusco", date).Return(0, nil)

	result, err := service.ValidateBooking(context.Background(), "tour_cusco", date, 11)

	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Only 10 spots available", result.Reason)
}

func TestValidateBooking_HeldSeatsReduceCapacity(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	mockBookings := new(MockBookingCounter)
	service := NewService(mockOfferings, mockBookings)

	date := futureDate()
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").
		Return(offeringOn(domain.DateKey(date)), nil)
	mockBookings.On("CountActivePassengers", mock.Anything, "tour_cusco", date).Return(7, nil)

	result, err := service.ValidateBooking(context.Background(), "tour_cusco", date, 4)

	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Only 3 spots available", result.Reason)
}

func TestValidateBooking_OfferingNotFound(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	service := NewService(mockOfferings, new(MockBookingCounter))

	mockOfferings.On("GetByID", mock.Anything, "tour_missing").
		Return(nil, repository.ErrNotFound)

	_, err := service.ValidateBooking(context.Background(), "tour_missing", futureDate(), 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAvailableCapacity_NegativeWhenOverbooked(t *testing.T) {
	mockOfferings := new(MockOfferingStore)
	mockBookings := new(MockBookingCounter)
	service := NewService(mockOfferings, mockBookings)

	date := futureDate()
	mockOfferings.On("GetByID", mock.Anything, "tour_cusco").
		Return(offeringOn(domain.DateKey(date)), nil)
	mockBookings.On("CountActivePassengers", mock.Anything, "tour_cusco", date).Return(12, nil)

	capacity, err := service.GetAvailableCapacity(context.Background(), "tour_cusco", date)

	assert.NoError(t, err)
	assert.Equal(t, -2, capacity)
}
