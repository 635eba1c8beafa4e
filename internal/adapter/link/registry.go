package link

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity type names used in link rows.
const (
	TypeBooking        = "booking"
	TypeOrder          = "order"
	TypeOffering       = "offering"
	TypeProduct        = "product"
	TypeVariant        = "offering_variant"
	TypeCatalogVariant = "product_variant"
)

// Link associates two entities across module boundaries without foreign
// keys, mirroring the commerce framework's remote links. Booking↔Order
// and Offering↔Product both go through this table.
type Link struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	LeftType  string    `json:"left_type" gorm:"index:idx_link_left"`
	LeftID    string    `json:"left_id" gorm:"index:idx_link_left"`
	RightType string    `json:"right_type" gorm:"index:idx_link_right"`
	RightID   string    `json:"right_id" gorm:"index:idx_link_right"`
	CreatedAt time.Time `json:"created_at"`
}

func (Link) TableName() string { return "entity_links" }

type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

func New(leftType, leftID, rightType, rightID string) Link {
	return Link{
		ID:        "link_" + uuid.NewString(),
		LeftType:  leftType,
		LeftID:    leftID,
		RightType: rightType,
		RightID:   rightID,
	}
}

func (r *Registry) CreateLinks(ctx context.Context, links []Link) error {
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		if links[i].ID == "" {
			links[i].ID = "link_" + uuid.NewString()
		}
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

// LeftIDsFor returns the left-side ids linked to one right-side entity,
// e.g. all booking ids linked to an order.
func (r *Registry) LeftIDsFor(ctx context.Context, leftType, rightType, rightID string) ([]string, error) {
	var ids []string
	tx := r.db.WithContext(ctx).Model(&Link{}).
		Where("left_type = ? AND right_type = ? AND right_id = ?", leftType, rightType, rightID).
		Pluck("left_id", &ids)
	return ids, tx.Error
}

// DeleteFor removes every link touching the given entity on either side.
func (r *Registry) DeleteFor(ctx context.Context, entityType, entityID string) error {
	return r.db.WithContext(ctx).
		Where("(left_type = ? AND left_id = ?) OR (right_type = ? AND right_id = ?)",
			entityType, entityID, entityType, entityID).
		Delete(&Link{}).Error
}
