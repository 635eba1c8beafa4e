package booking

// CreateBookingInput is one record of the direct batch-create endpoint.
// One record per passenger, mirroring the storefront's post-payment
// booking registration.
type CreateBookingInput struct {
	OfferingID        string `json:"offering_id"`
	OfferingVariantID string `json:"offering_variant_id"`
	PassengerName     string `json:"passenger_name"`
	PassengerEmail    string `json:"passenger_email,omitempty"`
	PassengerPhone    string `json:"passenger_phone,omitempty"`
	OfferingDate      string `json:"offering_date"`
	OrderID           string `json:"order_id"`
}

type CreateBookingsRequest struct {
	Bookings []CreateBookingInput `json:"bookings"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddCartItemsRequest adds one travel party to a cart: quantities per
// passenger type for one offering and date. All resulting line items are
// tagged with one generated group id.
type AddCartItemsRequest struct {
	OfferingID   string `json:"offering_id" binding:"required"`
	OfferingDate string `json:"offering_date" binding:"required"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	Infants      int    `json:"infants"`
	CustomerName string `json:"customer_name,omitempty"`
}

// CartValidationItem is the per-(offering, date) outcome of a cart
// validation.
type CartValidationItem struct {
	OfferingID   string `json:"offering_id"`
	OfferingDate string `json:"offering_date"`
	Passengers   int    `json:"passengers"`
	Available    bool   `json:"available"`
	Capacity     int    `json:"capacity"`
	Reason       string `json:"reason,omitempty"`
}
