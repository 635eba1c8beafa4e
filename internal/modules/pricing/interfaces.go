package pricing

import (
	"context"

	"tourbooking/internal/adapter/catalog"
	"tourbooking/internal/domain"
)

type OfferingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
}

// CatalogGateway is the slice of the catalog API pricing needs: variant
// resolution to a price set, and price-set reads/overwrites.
type CatalogGateway interface {
	RetrieveVariant(ctx context.Context, id string) (*catalog.Variant, error)
	GetPriceSet(ctx context.Context, id string) (*catalog.PriceSet, error)
	UpdatePriceSet(ctx context.Context, id string, prices []catalog.Price) error
}
