package pricing

// PassengerPrice is a display price in major currency units with the
// currency code uppercased for the UI.
type PassengerPrice struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Pricing is the per-passenger-type quote for one offering in one
// currency.
type Pricing struct {
	OfferingID  string         `json:"offering_id"`
	Destination string         `json:"destination"`
	Adult       PassengerPrice `json:"adult"`
	Child       PassengerPrice `json:"child"`
	Infant      PassengerPrice `json:"infant"`
}

// PriceUpdate overwrites one currency's entry per passenger type. Nil
// fields are left untouched.
type PriceUpdate struct {
	Adult        *float64 `json:"adult,omitempty"`
	Child        *float64 `json:"child,omitempty"`
	Infant       *float64 `json:"infant,omitempty"`
	CurrencyCode string   `json:"currency_code,omitempty"`
}

// QuoteLine is one passenger type's contribution to a cart quote.
type QuoteLine struct {
	PassengerType string  `json:"passenger_type"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Total         float64 `json:"total"`
}

// Quote is the pre-checkout total for one offering: unit price per
// passenger type times the requested quantity, in major units.
type Quote struct {
	OfferingID string      `json:"offering_id"`
	Currency   string      `json:"currency"`
	Lines      []QuoteLine `json:"lines"`
	Subtotal   float64     `json:"subtotal"`
}

// PriceTable maps passenger type → uppercase currency code → amount in
// major units. The admin pricing screen reads and writes this shape.
type PriceTable map[string]map[string]float64

type UpdatePricingRequest struct {
	Prices PriceTable `json:"prices" binding:"required"`
}
