package pricing

import "errors"

var (
	ErrNotFound   = errors.New("offering not found")
	ErrValidation = errors.New("validation error")
)
