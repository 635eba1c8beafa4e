package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourbooking/internal/adapter/catalog"
	"tourbooking/internal/domain"
	"tourbooking/internal/repository"

	"github.com/sirupsen/logrus"
)

// DefaultCurrency is the primary sales currency.
const DefaultCurrency = "PEN"

// Service translates between passenger-type prices and the catalog's
// per-variant price sets. Offerings store no prices themselves.
//
// All amounts are MAJOR currency units end to end: 300 means 300.00.
// The catalog stores currency codes lowercased; everything returned for
// display is uppercased.
type Service struct {
	offerings OfferingStore
	gateway   CatalogGateway
	log       *logrus.Logger
}

func NewService(offerings OfferingStore, gateway CatalogGateway, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{offerings: offerings, gateway: gateway, log: log}
}

// GetPricing quotes one currency for every passenger type. A missing
// variant, price set or currency entry reports as 0, never an error.
func (s *Service) GetPricing(ctx context.Context, offeringID, currencyCode string) (*Pricing, error) {
	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	display := strings.ToUpper(currencyCode)
	stored := strings.ToLower(currencyCode)

	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	out := &Pricing{
		OfferingID:  offering.ID,
		Destination: offering.Destination,
		Adult:       PassengerPrice{Currency: display},
		Child:       PassengerPrice{Currency: display},
		Infant:      PassengerPrice{Currency: display},
	}

	for _, variant := range offering.Variants {
		priceSet, err := s.priceSetForVariant(ctx, variant.VariantID)
		if err != nil || priceSet == nil {
			continue
		}

		amount := 0.0
		for _, p := range priceSet.Prices {
			if strings.ToLower(p.CurrencyCode) == stored {
				amount = p.Amount
				break
			}
		}

		price := PassengerPrice{Price: amount, Currency: display}
		switch variant.PassengerType {
		case domain.PassengerAdult:
			out.Adult = price
		case domain.PassengerChild:
			out.Child = price
		case domain.PassengerInfant:
			out.Infant = price
		}
	}

	return out, nil
}

// GetPriceTable returns every stored currency per passenger type, keyed
// by uppercase currency code. Used by the admin pricing screen.
func (s *Service) GetPriceTable(ctx context.Context, offeringID string) (PriceTable, error) {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	table := PriceTable{}
	for _, pt := range domain.PassengerTypes {
		table[string(pt)] = map[string]float64{}
	}

	for _, variant := range offering.Variants {
		priceSet, err := s.priceSetForVariant(ctx, variant.VariantID)
		if err != nil || priceSet == nil {
			continue
		}
		for _, p := range priceSet.Prices {
			table[string(variant.PassengerType)][strings.ToUpper(p.CurrencyCode)] = p.Amount
		}
	}

	return table, nil
}

// QuoteCart prices a prospective booking: unit price per passenger type
// times the requested quantity. Types with zero passengers are omitted
// from the lines.
func (s *Service) QuoteCart(ctx context.Context, offeringID, currencyCode string, adults, children, infants int) (*Quote, error) {
	if adults < 0 || children < 0 || infants < 0 {
		return nil, fmt.Errorf("%w: passenger quantities must not be negative", ErrValidation)
	}
	if adults+children+infants == 0 {
		return nil, fmt.Errorf("%w: at least one passenger is required", ErrValidation)
	}

	pricing, err := s.GetPricing(ctx, offeringID, currencyCode)
	if err != nil {
		return nil, err
	}

	quote := &Quote{OfferingID: pricing.OfferingID, Currency: pricing.Adult.Currency}
	lines := []struct {
		pt    domain.PassengerType
		qty   int
		price PassengerPrice
	}{
		{domain.PassengerAdult, adults, pricing.Adult},
		{domain.PassengerChild, children, pricing.Child},
		{domain.PassengerInfant, infants, pricing.Infant},
	}
	for _, line := range lines {
		if line.qty == 0 {
			continue
		}
		total := line.price.Price * float64(line.qty)
		quote.Lines = append(quote.Lines, QuoteLine{
			PassengerType: string(line.pt),
			Quantity:      line.qty,
			UnitPrice:     line.price.Price,
			Total:         total,
		})
		quote.Subtotal += total
	}

	return quote, nil
}

// UpdatePricing overwrites the target currency's entry on each present
// passenger type's price set. A variant without a price set is skipped
// and logged, not fatal.
func (s *Service) UpdatePricing(ctx context.Context, offeringID string, update PriceUpdate) error {
	currency := update.CurrencyCode
	if currency == "" {
		currency = DefaultCurrency
	}

	amounts := map[domain.PassengerType]*float64{
		domain.PassengerAdult:  update.Adult,
		domain.PassengerChild:  update.Child,
		domain.PassengerInfant: update.Infant,
	}

	table := PriceTable{}
	for pt, amount := range amounts {
		if amount == nil {
			continue
		}
		table[string(pt)] = map[string]float64{strings.ToUpper(currency): *amount}
	}

	return s.UpdatePriceTable(ctx, offeringID, table)
}

// UpdatePriceTable writes every (passenger type, currency) cell present
// in the table. Currency codes are lowercased on write per the catalog
// convention. A variant with no price set is skipped; a failed write is
// not, it propagates to the caller.
func (s *Service) UpdatePriceTable(ctx context.Context, offeringID string, table PriceTable) error {
	offering, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	for _, variant := range offering.Variants {
		cells, ok := table[string(variant.PassengerType)]
		if !ok || len(cells) == 0 {
			continue
		}

		resolved, err := s.gateway.RetrieveVariant(ctx, variant.VariantID)
		if err != nil || resolved == nil || resolved.PriceSetID == "" {
			s.log.WithFields(logrus.Fields{
				"offering_id": offeringID,
				"variant_id":  variant.VariantID,
			}).Warn("no price set found for variant, skipping price update")
			continue
		}

		prices := make([]catalog.Price, 0, len(cells))
		for currency, amount := range cells {
			prices = append(prices, catalog.Price{
				Amount:       amount,
				CurrencyCode: strings.ToLower(currency),
			})
		}

		if err := s.gateway.UpdatePriceSet(ctx, resolved.PriceSetID, prices); err != nil {
			s.log.WithError(err).WithField("variant_id", variant.VariantID).
				Error("failed to update price set")
			return fmt.Errorf("update price set for variant %s: %w", variant.VariantID, err)
		}
	}

	return nil
}

func (s *Service) priceSetForVariant(ctx context.Context, variantID string) (*catalog.PriceSet, error) {
	resolved, err := s.gateway.RetrieveVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if resolved == nil || resolved.PriceSetID == "" {
		return nil, nil
	}
	return s.gateway.GetPriceSet(ctx, resolved.PriceSetID)
}
