package availability

import "errors"

// Validation outcomes are reported through Result, not errors; only a
// missing offering is an error here.
var ErrNotFound = errors.New("offering not found")
