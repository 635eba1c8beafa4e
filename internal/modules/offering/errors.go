package offering

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("offering not found")
	ErrDuplicate  = errors.New("offering already exists")
)
