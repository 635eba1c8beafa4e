package offering

// CreateRequest creates an offering together with its catalog product
// and the fixed adult/child/infant variant set. Prices are major units.
type CreateRequest struct {
	Destination    string   `json:"destination" binding:"required"`
	Description    string   `json:"description"`
	DurationDays   int      `json:"duration_days" binding:"required"`
	MaxCapacity    int      `json:"max_capacity" binding:"required"`
	AvailableDates []string `json:"available_dates"`
	Thumbnail      string   `json:"thumbnail"`
	Prices         Prices   `json:"prices" binding:"required"`
}

type Prices struct {
	Adult        float64 `json:"adult"`
	Child        float64 `json:"child"`
	Infant       float64 `json:"infant"`
	CurrencyCode string  `json:"currency_code"`
}

// UpdateRequest is a partial patch; nil fields are untouched.
type UpdateRequest struct {
	Destination    *string   `json:"destination,omitempty"`
	Description    *string   `json:"description,omitempty"`
	DurationDays   *int      `json:"duration_days,omitempty"`
	MaxCapacity    *int      `json:"max_capacity,omitempty"`
	AvailableDates *[]string `json:"available_dates,omitempty"`
	Thumbnail      *string   `json:"thumbnail,omitempty"`
}
