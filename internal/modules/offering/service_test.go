package offering

import (
	"context"
	"errors"
	"io"
	"testing"

	"tourbooking/internal/adapter/catalog"
	"tourbooking/internal/adapter/link"
	"tourbooking/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, o *domain.Offering) error {
	args := m.Called(ctx, o)
	if o != nil && o.ID == "" {
		o.ID = "tour_new" // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockStore) CreateVariants(ctx context.Context, variants []domain.OfferingVariant) error {
	args := m.Called(ctx, variants)
	return args.Error(0)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offering), args.Error(1)
}

func (m *MockStore) List(ctx context.Context, kind domain.Kind, limit, offset int) ([]domain.Offering, int64, error) {
	args := m.Called(ctx, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Offering), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) DeleteVariants(ctx context.Context, offeringID string) error {
	args := m.Called(ctx, offeringID)
	return args.Error(0)
}

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) DeleteByOffering(ctx context.Context, offeringID string) error {
	args := m.Called(ctx, offeringID)
	return args.Error(0)
}

type MockCatalogGateway struct {
	mock.Mock
}

func (m *MockCatalogGateway) CreateProductWithVariants(ctx context.Context, spec catalog.ProductSpec) (*catalog.Product, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalogGateway) RetrieveProduct(ctx context.Context, id string) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalogGateway) UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockCatalogGateway) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLinkRegistry struct {
	mock.Mock
}

func (m *MockLinkRegistry) CreateLinks(ctx context.Context, links []link.Link) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

func (m *MockLinkRegistry) DeleteFor(ctx context.Context, entityType, entityID string) error {
	args := m.Called(ctx, entityType, entityID)
	return args.Error(0)
}

func newTestService(store *MockStore, bookings *MockBookingStore, gateway *MockCatalogGateway, links *MockLinkRegistry) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(domain.KindTour, store, bookings, gateway, links, log)
}

func createdProduct() *catalog.Product {
	return &catalog.Product{
		ID: "prod_1",
		Variants: []catalog.Variant{
			{ID: "variant_adult", OptionValue: "Adult"},
			{ID: "variant_child", OptionValue: "Child"},
			{ID: "variant_infant", OptionValue: "Infant"},
		},
	}
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		Destination:    "Machu Picchu",
		Description:    "Five day trek",
		DurationDays:   5,
		MaxCapacity:    12,
		AvailableDates: []string{"2027-03-15", "2027-04-01"},
		Prices:         Prices{Adult: 300, Child: 150, Infant: 0},
	}
}

func TestCreate_SeedsBothCurrencies(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	mockLinks := new(MockLinkRegistry)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, mockLinks)

	var spec catalog.ProductSpec
	mockGateway.On("CreateProductWithVariants", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			spec = args.Get(1).(catalog.ProductSpec)
		}).
		Return(createdProduct(), nil)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockStore.On("CreateVariants", mock.Anything, mock.Anything).Return(nil)
	mockLinks.On("CreateLinks", mock.Anything, mock.Anything).Return(nil)
	mockStore.On("GetByID", mock.Anything, "tour_new").
		Return(&domain.Offering{ID: "tour_new", Kind: domain.KindTour}, nil)

	o, err := service.Create(context.Background(), validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, "tour_new", o.ID)
	assert.Equal(t, "Machu Picchu - 5 Days", spec.Title)
	assert.Equal(t, "Passenger Type", spec.OptionTitle)
	assert.Len(t, spec.Variants, 3)

	adult := spec.Variants[0]
	assert.Equal(t, "machu-picchu-ADULT", adult.SKU)
	assert.Len(t, adult.Prices, 2)
	assert.Equal(t, 300.0, adult.Prices[0].Amount)
	assert.Equal(t, "PEN", adult.Prices[0].CurrencyCode)
	// 300 * 0.27 = 81, rounded once at creation.
	assert.Equal(t, 81.0, adult.Prices[1].Amount)
	assert.Equal(t, "USD", adult.Prices[1].CurrencyCode)
}

func TestCreate_ClassifiesVariantsByOptionValue(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	mockLinks := new(MockLinkRegistry)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, mockLinks)

	mockGateway.On("CreateProductWithVariants", mock.Anything, mock.Anything).
		Return(createdProduct(), nil)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	var captured []domain.OfferingVariant
	mockStore.On("CreateVariants", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).([]domain.OfferingVariant)
		}).
		Return(nil)
	mockLinks.On("CreateLinks", mock.Anything, mock.Anything).Return(nil)
	mockStore.On("GetByID", mock.Anything, "tour_new").
		Return(&domain.Offering{ID: "tour_new"}, nil)

	_, err := service.Create(context.Background(), validCreateRequest())

	assert.NoError(t, err)
	assert.Len(t, captured, 3)
	assert.Equal(t, domain.PassengerAdult, captured[0].PassengerType)
	assert.Equal(t, "variant_adult", captured[0].VariantID)
	assert.Equal(t, domain.PassengerChild, captured[1].PassengerType)
	assert.Equal(t, domain.PassengerInfant, captured[2].PassengerType)
}

func TestCreate_RollsBackInReverseOnLinkFailure(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	mockLinks := new(MockLinkRegistry)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, mockLinks)

	mockGateway.On("CreateProductWithVariants", mock.Anything, mock.Anything).
		Return(createdProduct(), nil)
	mockStore.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockStore.On("CreateVariants", mock.Anything, mock.Anything).Return(nil)

	linkErr := errors.New("links table unavailable")
	mockLinks.On("CreateLinks", mock.Anything, mock.Anything).Return(linkErr)

	var order []string
	mockStore.On("DeleteVariants", mock.Anything, "tour_new").
		Run(func(mock.Arguments) { order = append(order, "variants") }).Return(nil)
	mockStore.On("Delete", mock.Anything, "tour_new").
		Run(func(mock.Arguments) { order = append(order, "offering") }).Return(nil)
	mockGateway.On("DeleteProduct", mock.Anything, "prod_1").
		Run(func(mock.Arguments) { order = append(order, "product") }).Return(nil)

	_, err := service.Create(context.Background(), validCreateRequest())

	assert.ErrorIs(t, err, linkErr)
	// Compensations run in reverse of creation order.
	assert.Equal(t, []string{"variants", "offering", "product"}, order)
}

func TestCreate_ProductFailureCreatesNothing(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, new(MockLinkRegistry))

	mockGateway.On("CreateProductWithVariants", mock.Anything, mock.Anything).
		Return(nil, errors.New("catalog unreachable"))

	_, err := service.Create(context.Background(), validCreateRequest())

	assert.Error(t, err)
	mockStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	service := newTestService(new(MockStore), new(MockBookingStore), new(MockCatalogGateway), new(MockLinkRegistry))

	req := validCreateRequest()
	req.Destination = "  "
	_, err := service.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	req = validCreateRequest()
	req.MaxCapacity = 0
	_, err = service.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdate_SyncsProductTitle(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, new(MockLinkRegistry))

	current := &domain.Offering{
		ID:           "tour_1",
		ProductID:    "prod_1",
		Destination:  "Cusco",
		DurationDays: 4,
	}
	mockStore.On("GetByID", mock.Anything, "tour_1").Return(current, nil)
	mockStore.On("Update", mock.Anything, "tour_1", mock.Anything).Return(nil)

	var patch catalog.ProductPatch
	mockGateway.On("UpdateProduct", mock.Anything, "prod_1", mock.Anything).
		Run(func(args mock.Arguments) {
			patch = args.Get(2).(catalog.ProductPatch)
		}).
		Return(nil)

	days := 7
	_, err := service.Update(context.Background(), "tour_1", UpdateRequest{DurationDays: &days})

	assert.NoError(t, err)
	assert.NotNil(t, patch.Title)
	assert.Equal(t, "Cusco - 7 Days", *patch.Title)
}

func TestUpdate_ProductSyncFailureIsSoft(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, new(MockLinkRegistry))

	current := &domain.Offering{ID: "tour_1", ProductID: "prod_1", Destination: "Cusco", DurationDays: 4}
	mockStore.On("GetByID", mock.Anything, "tour_1").Return(current, nil)
	mockStore.On("Update", mock.Anything, "tour_1", mock.Anything).Return(nil)
	mockGateway.On("UpdateProduct", mock.Anything, "prod_1", mock.Anything).
		Return(errors.New("catalog unreachable"))

	dest := "Arequipa"
	o, err := service.Update(context.Background(), "tour_1", UpdateRequest{Destination: &dest})

	assert.NoError(t, err)
	assert.NotNil(t, o)
}

func TestDelete_LenientCascade(t *testing.T) {
	mockStore := new(MockStore)
	mockBookings := new(MockBookingStore)
	mockGateway := new(MockCatalogGateway)
	mockLinks := new(MockLinkRegistry)
	service := newTestService(mockStore, mockBookings, mockGateway, mockLinks)

	mockStore.On("GetByID", mock.Anything, "tour_1").
		Return(&domain.Offering{ID: "tour_1", ProductID: "prod_1"}, nil)
	// Variant deletion fails; the cascade keeps going.
	mockStore.On("DeleteVariants", mock.Anything, "tour_1").Return(errors.New("fk violation"))
	mockBookings.On("DeleteByOffering", mock.Anything, "tour_1").Return(nil)
	mockStore.On("Delete", mock.Anything, "tour_1").Return(nil)
	mockLinks.On("DeleteFor", mock.Anything, link.TypeOffering, "tour_1").Return(nil)
	mockGateway.On("DeleteProduct", mock.Anything, "prod_1").Return(nil)

	err := service.Delete(context.Background(), "tour_1")

	assert.NoError(t, err)
	mockGateway.AssertCalled(t, "DeleteProduct", mock.Anything, "prod_1")
}

func TestDelete_RemovesVariantLinks(t *testing.T) {
	mockStore := new(MockStore)
	mockBookings := new(MockBookingStore)
	mockGateway := new(MockCatalogGateway)
	mockLinks := new(MockLinkRegistry)
	service := newTestService(mockStore, mockBookings, mockGateway, mockLinks)

	mockStore.On("GetByID", mock.Anything, "tour_1").
		Return(&domain.Offering{
			ID:        "tour_1",
			ProductID: "prod_1",
			Variants: []domain.OfferingVariant{
				{ID: "ovar_adult", VariantID: "variant_adult"},
				{ID: "ovar_child", VariantID: "variant_child"},
			},
		}, nil)
	mockStore.On("DeleteVariants", mock.Anything, "tour_1").Return(nil)
	mockBookings.On("DeleteByOffering", mock.Anything, "tour_1").Return(nil)
	mockStore.On("Delete", mock.Anything, "tour_1").Return(nil)
	mockLinks.On("DeleteFor", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockGateway.On("DeleteProduct", mock.Anything, "prod_1").Return(nil)

	err := service.Delete(context.Background(), "tour_1")

	assert.NoError(t, err)
	// The registry is cleared for the offering and for each variant, so
	// no variant<->catalog rows linger after the cascade.
	mockLinks.AssertCalled(t, "DeleteFor", mock.Anything, link.TypeOffering, "tour_1")
	mockLinks.AssertCalled(t, "DeleteFor", mock.Anything, link.TypeVariant, "ovar_adult")
	mockLinks.AssertCalled(t, "DeleteFor", mock.Anything, link.TypeVariant, "ovar_child")
}

func TestGetEnriched_ThumbnailFromCatalog(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, new(MockLinkRegistry))

	mockStore.On("GetByID", mock.Anything, "tour_1").
		Return(&domain.Offering{ID: "tour_1", ProductID: "prod_1"}, nil)
	mockGateway.On("RetrieveProduct", mock.Anything, "prod_1").
		Return(&catalog.Product{ID: "prod_1", Thumbnail: "https://img/cusco.jpg"}, nil)

	o, err := service.GetEnriched(context.Background(), "tour_1")

	assert.NoError(t, err)
	assert.NotNil(t, o.Thumbnail)
	assert.Equal(t, "https://img/cusco.jpg", *o.Thumbnail)
}

func TestGetEnriched_CatalogFailureIsSoft(t *testing.T) {
	mockStore := new(MockStore)
	mockGateway := new(MockCatalogGateway)
	service := newTestService(mockStore, new(MockBookingStore), mockGateway, new(MockLinkRegistry))

	mockStore.On("GetByID", mock.Anything, "tour_1").
		Return(&domain.Offering{ID: "tour_1", ProductID: "prod_1"}, nil)
	mockGateway.On("RetrieveProduct", mock.Anything, "prod_1").
		Return(nil, errors.New("catalog unreachable"))

	o, err := service.GetEnriched(context.Background(), "tour_1")

	assert.NoError(t, err)
	assert.Nil(t, o.Thumbnail)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "machu-picchu", Slugify("Machu Picchu"))
	assert.Equal(t, "lima-city-tour", Slugify("Lima  City / Tour!"))
	assert.Equal(t, "cusco", Slugify("Cusco"))
}
