package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Kind discriminates the two structurally identical bookable products.
// Tours and packages share one schema and one set of services; only the
// route prefixes and catalog link names differ.
type Kind string

const (
	KindTour    Kind = "tour"
	KindPackage Kind = "package"
)

type PassengerType string

const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

// PassengerTypes lists the fixed variant set every offering carries.
var PassengerTypes = []PassengerType{PassengerAdult, PassengerChild, PassengerInfant}

// Offering is a bookable tour or package. Prices are not stored here;
// they live in the catalog's price sets, one per linked variant.
type Offering struct {
	ID           string  `json:"id" gorm:"primaryKey"`
	Kind         Kind    `json:"kind" gorm:"index"`
	ProductID    string  `json:"product_id" gorm:"uniqueIndex"`
	Destination  string  `json:"destination"`
	Description  *string `json:"description,omitempty"`
	DurationDays int     `json:"duration_days"`
	MaxCapacity  int     `json:"max_capacity"`
	Thumbnail    *string `json:"thumbnail,omitempty"`
	// ISO day strings ("2006-01-02"); membership is checked lazily at
	// validation time, past dates are never pruned on write.
	AvailableDates datatypes.JSONSlice[string] `json:"available_dates"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`

	Variants []OfferingVariant `json:"variants,omitempty" gorm:"foreignKey:OfferingID"`
}

// OfferingVariant links one passenger type of an offering to its catalog
// product variant. At most one row per (offering, passenger_type).
type OfferingVariant struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	OfferingID    string        `json:"offering_id" gorm:"index:idx_offering_passenger,unique"`
	VariantID     string        `json:"variant_id" gorm:"uniqueIndex"`
	PassengerType PassengerType `json:"passenger_type" gorm:"index:idx_offering_passenger,unique"`
	CreatedAt     time.Time     `json:"created_at"`
}
