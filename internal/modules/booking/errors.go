package booking

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("booking not found")
	ErrNotAvailable = errors.New("offering not available")
	ErrCartLocked   = errors.New("cart is being completed by another request")
	ErrEmptyCart    = errors.New("cart has no bookable items")
)
