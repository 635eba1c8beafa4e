package offering

import (
	"context"

	"tourbooking/internal/adapter/catalog"
	"tourbooking/internal/adapter/link"
	"tourbooking/internal/domain"
)

type Store interface {
	Create(ctx context.Context, o *domain.Offering) error
	CreateVariants(ctx context.Context, variants []domain.OfferingVariant) error
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
	List(ctx context.Context, kind domain.Kind, limit, offset int) ([]domain.Offering, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	DeleteVariants(ctx context.Context, offeringID string) error
}

type BookingStore interface {
	DeleteByOffering(ctx context.Context, offeringID string) error
}

// CatalogGateway is the catalog surface the offering lifecycle needs.
type CatalogGateway interface {
	CreateProductWithVariants(ctx context.Context, spec catalog.ProductSpec) (*catalog.Product, error)
	RetrieveProduct(ctx context.Context, id string) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, patch catalog.ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
}

type LinkRegistry interface {
	CreateLinks(ctx context.Context, links []link.Link) error
	DeleteFor(ctx context.Context, entityType, entityID string) error
}
