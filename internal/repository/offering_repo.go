package repository

import (
	"context"
	"errors"
	"fmt"

	"tourbooking/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write
// (offering already linked to the product, or a second variant for the
// same passenger type).
var ErrDuplicate = errors.New("duplicate record")

type OfferingRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

func NewOfferingID(kind domain.Kind) string {
	return fmt.Sprintf("%s_%s", kind, uuid.NewString())
}

func NewVariantID() string {
	return "ovar_" + uuid.NewString()
}

func (r *OfferingRepository) Create(ctx context.Context, o *domain.Offering) error {
	if o.ID == "" {
		o.ID = NewOfferingID(o.Kind)
	}
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return translateConstraint(err)
	}
	return nil
}

func (r *OfferingRepository) CreateVariants(ctx context.Context, variants []domain.OfferingVariant) error {
	for i := range variants {
		if variants[i].ID == "" {
			variants[i].ID = NewVariantID()
		}
	}
	if err := r.db.WithContext(ctx).Create(&variants).Error; err != nil {
		return translateConstraint(err)
	}
	return nil
}

func (r *OfferingRepository) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	var o domain.Offering
	tx := r.db.WithContext(ctx).Preload("Variants").First(&o, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &o, nil
}

func (r *OfferingRepository) List(ctx context.Context, kind domain.Kind, limit, offset int) ([]domain.Offering, int64, error) {
	var (
		out   []domain.Offering
		count int64
	)
	q := r.db.WithContext(ctx).Model(&domain.Offering{}).Where("kind = ?", kind)
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Offset(offset).Preload("Variants").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

// Update applies a partial patch. Only keys present in fields change.
func (r *OfferingRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Offering{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OfferingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Offering{}, "id = ?", id).Error
}

func (r *OfferingRepository) DeleteVariants(ctx context.Context, offeringID string) error {
	return r.db.WithContext(ctx).Delete(&domain.OfferingVariant{}, "offering_id = ?", offeringID).Error
}

// VariantByCatalogID resolves the offering variant linked to a catalog
// product variant. Used by the assembly workflow to find which offering
// a cart line item belongs to.
func (r *OfferingRepository) VariantByCatalogID(ctx context.Context, variantID string) (*domain.OfferingVariant, error) {
	var v domain.OfferingVariant
	tx := r.db.WithContext(ctx).First(&v, "variant_id = ?", variantID)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &v, nil
}

func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
