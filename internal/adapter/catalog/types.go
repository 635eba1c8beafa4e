package catalog

// Price is one currency entry of a price set. Amounts are MAJOR currency
// units: 300 means 300.00, never cents. The catalog stores currency
// codes lowercased.
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

type VariantSpec struct {
	Title       string  `json:"title"`
	SKU         string  `json:"sku"`
	OptionValue string  `json:"option_value"`
	Prices      []Price `json:"prices"`
}

type ProductSpec struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	OptionTitle string        `json:"option_title"`
	Variants    []VariantSpec `json:"variants"`
}

type Variant struct {
	ID          string `json:"id"`
	OptionValue string `json:"option_value"`
	PriceSetID  string `json:"price_set_id,omitempty"`
}

type Product struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Variants  []Variant `json:"variants"`
}

type ProductPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
}

type PriceSet struct {
	ID     string  `json:"id"`
	Prices []Price `json:"prices"`
}
