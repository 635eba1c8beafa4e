package offering

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"tourbooking/internal/adapter/catalog"
	"tourbooking/internal/adapter/link"
	"tourbooking/internal/domain"
	"tourbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// usdRate seeds a USD price alongside the primary currency at creation
// so new offerings are immediately listable in both. One-time seed, not
// a live exchange rate.
const usdRate = 0.27

var optionValues = map[domain.PassengerType]string{
	domain.PassengerAdult:  "Adult",
	domain.PassengerChild:  "Child",
	domain.PassengerInfant: "Infant",
}

type Service struct {
	kind     domain.Kind
	store    Store
	bookings BookingStore
	gateway  CatalogGateway
	links    LinkRegistry
	log      *logrus.Logger
}

func NewService(kind domain.Kind, store Store, bookings BookingStore, gateway CatalogGateway, links LinkRegistry, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{kind: kind, store: store, bookings: bookings, gateway: gateway, links: links, log: log}
}

func (s *Service) Kind() domain.Kind { return s.kind }

// Create runs the offering creation saga: catalog product with the three
// passenger variants, the offering row, its variant links, and the link
// registry entries. Each step registers a compensation before the next
// runs; a failure rolls back everything created so far in reverse order.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Offering, error) {
	if strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if req.DurationDays < 1 {
		return nil, fmt.Errorf("%w: duration_days must be at least 1", ErrValidation)
	}
	if req.MaxCapacity < 1 {
		return nil, fmt.Errorf("%w: max_capacity must be at least 1", ErrValidation)
	}

	var compensations []func()

	rollback := func() {
		for i := len(compensations) - 1; i >= 0; i-- {
			compensations[i]()
		}
	}

	// Step 1: catalog product + variants, seeded with two currencies.
	product, err := s.gateway.CreateProductWithVariants(ctx, s.productSpec(req))
	if err != nil {
		return nil, fmt.Errorf("create catalog product: %w", err)
	}
	compensations = append(compensations, func() {
		if err := s.gateway.DeleteProduct(context.Background(), product.ID); err != nil {
			s.log.WithError(err).WithField("product_id", product.ID).
				Warn("compensation: failed to delete catalog product")
		}
	})

	// Step 2: offering row.
	o := &domain.Offering{
		Kind:           s.kind,
		ProductID:      product.ID,
		Destination:    req.Destination,
		DurationDays:   req.DurationDays,
		MaxCapacity:    req.MaxCapacity,
		AvailableDates: datatypes.JSONSlice[string](req.AvailableDates),
	}
	if req.Description != "" {
		o.Description = &req.Description
	}
	if req.Thumbnail != "" {
		o.Thumbnail = &req.Thumbnail
	}
	if err := s.store.Create(ctx, o); err != nil {
		rollback()
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create offering: %w", err)
	}
	compensations = append(compensations, func() {
		if err := s.store.Delete(context.Background(), o.ID); err != nil {
			s.log.WithError(err).WithField("offering_id", o.ID).
				Warn("compensation: failed to delete offering")
		}
	})

	// Step 3: classify catalog variants back to passenger types by their
	// option value and persist the offering variants.
	variants := make([]domain.OfferingVariant, 0, len(product.Variants))
	for _, v := range product.Variants {
		variants = append(variants, domain.OfferingVariant{
			OfferingID:    o.ID,
			VariantID:     v.ID,
			PassengerType: classify(v.OptionValue),
		})
	}
	if err := s.store.CreateVariants(ctx, variants); err != nil {
		rollback()
		return nil, fmt.Errorf("create offering variants: %w", err)
	}
	compensations = append(compensations, func() {
		if err := s.store.DeleteVariants(context.Background(), o.ID); err != nil {
			s.log.WithError(err).WithField("offering_id", o.ID).
				Warn("compensation: failed to delete offering variants")
		}
	})

	// Step 4: registry links offering<->product and variant<->variant.
	links := []link.Link{
		link.New(link.TypeOffering, o.ID, link.TypeProduct, product.ID),
	}
	for _, v := range variants {
		links = append(links, link.New(link.TypeVariant, v.ID, link.TypeCatalogVariant, v.VariantID))
	}
	if err := s.links.CreateLinks(ctx, links); err != nil {
		rollback()
		return nil, fmt.Errorf("create links: %w", err)
	}

	return s.store.GetByID(ctx, o.ID)
}

// Update patches the offering row, then best-effort syncs the derived
// catalog product title/description. The two writes are not
// transactional; a partial failure can leave them out of sync until the
// next update.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*domain.Offering, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]any{}
	if req.Destination != nil {
		fields["destination"] = *req.Destination
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.DurationDays != nil {
		if *req.DurationDays < 1 {
			return nil, fmt.Errorf("%w: duration_days must be at least 1", ErrValidation)
		}
		fields["duration_days"] = *req.DurationDays
	}
	if req.MaxCapacity != nil {
		if *req.MaxCapacity < 1 {
			return nil, fmt.Errorf("%w: max_capacity must be at least 1", ErrValidation)
		}
		fields["max_capacity"] = *req.MaxCapacity
	}
	if req.AvailableDates != nil {
		fields["available_dates"] = datatypes.JSONSlice[string](*req.AvailableDates)
	}
	if req.Thumbnail != nil {
		fields["thumbnail"] = *req.Thumbnail
	}

	if len(fields) > 0 {
		if err := s.store.Update(ctx, id, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	s.syncProduct(ctx, current, req)

	return s.store.GetByID(ctx, id)
}

func (s *Service) syncProduct(ctx context.Context, current *domain.Offering, req UpdateRequest) {
	if current.ProductID == "" {
		return
	}
	if req.Destination == nil && req.DurationDays == nil && req.Description == nil {
		return
	}

	patch := catalog.ProductPatch{}
	dest := current.Destination
	if req.Destination != nil {
		dest = *req.Destination
	}
	days := current.DurationDays
	if req.DurationDays != nil {
		days = *req.DurationDays
	}
	title := ProductTitle(dest, days)
	patch.Title = &title
	if req.Description != nil {
		patch.Description = req.Description
	}

	if err := s.gateway.UpdateProduct(ctx, current.ProductID, patch); err != nil {
		s.log.WithError(err).WithField("product_id", current.ProductID).
			Warn("failed to sync catalog product after offering update")
	}
}

// Delete cascades in application code: variants, bookings, the offering
// row, then the catalog product. Each sub-step failure is logged and the
// remaining steps still run; deletion is deliberately lenient.
func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.DeleteVariants(ctx, id); err != nil {
		s.log.WithError(err).WithField("offering_id", id).Warn("could not delete variants")
	}
	if err := s.bookings.DeleteByOffering(ctx, id); err != nil {
		s.log.WithError(err).WithField("offering_id", id).Warn("could not delete bookings")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.links.DeleteFor(ctx, link.TypeOffering, id); err != nil {
		s.log.WithError(err).WithField("offering_id", id).Warn("could not delete links")
	}
	for _, v := range o.Variants {
		if err := s.links.DeleteFor(ctx, link.TypeVariant, v.ID); err != nil {
			s.log.WithError(err).WithField("variant_id", v.ID).Warn("could not delete variant links")
		}
	}
	if o.ProductID != "" {
		if err := s.gateway.DeleteProduct(ctx, o.ProductID); err != nil {
			s.log.WithError(err).WithField("product_id", o.ProductID).
				Warn("could not delete catalog product")
		}
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetEnriched fetches the offering plus its catalog thumbnail. The
// catalog call is non-critical: on failure the offering is returned as
// stored and the miss is logged.
func (s *Service) GetEnriched(ctx context.Context, id string) (*domain.Offering, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Thumbnail == nil && o.ProductID != "" {
		product, err := s.gateway.RetrieveProduct(ctx, o.ProductID)
		if err != nil {
			s.log.WithError(err).WithField("product_id", o.ProductID).
				Warn("could not fetch catalog product for thumbnail")
		} else if product.Thumbnail != "" {
			o.Thumbnail = &product.Thumbnail
		}
	}

	return o, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Offering, int64, error) {
	return s.store.List(ctx, s.kind, limit, offset)
}

func (s *Service) productSpec(req CreateRequest) catalog.ProductSpec {
	currency := req.Prices.CurrencyCode
	if currency == "" {
		currency = "PEN"
	}
	skuPrefix := Slugify(req.Destination)

	amounts := map[domain.PassengerType]float64{
		domain.PassengerAdult:  req.Prices.Adult,
		domain.PassengerChild:  req.Prices.Child,
		domain.PassengerInfant: req.Prices.Infant,
	}

	variants := make([]catalog.VariantSpec, 0, len(domain.PassengerTypes))
	for _, pt := range domain.PassengerTypes {
		title := optionValues[pt]
		variants = append(variants, catalog.VariantSpec{
			Title:       title,
			SKU:         fmt.Sprintf("%s-%s", skuPrefix, strings.ToUpper(title)),
			OptionValue: title,
			Prices: []catalog.Price{
				{Amount: amounts[pt], CurrencyCode: currency},
				{Amount: math.Round(amounts[pt] * usdRate), CurrencyCode: "USD"},
			},
		})
	}

	return catalog.ProductSpec{
		Title:       ProductTitle(req.Destination, req.DurationDays),
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		OptionTitle: "Passenger Type",
		Variants:    variants,
	}
}

func classify(optionValue string) domain.PassengerType {
	switch optionValue {
	case "Child":
		return domain.PassengerChild
	case "Infant":
		return domain.PassengerInfant
	default:
		return domain.PassengerAdult
	}
}

// ProductTitle derives the catalog product title, e.g. "Cusco - 5 Days".
func ProductTitle(destination string, days int) string {
	return fmt.Sprintf("%s - %d Days", destination, days)
}

// Slugify lowercases the destination and collapses every non
// alphanumeric run to one dash, for SKU prefixes.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
