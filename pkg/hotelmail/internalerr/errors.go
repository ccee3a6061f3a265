package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrClassifierBusy = errors.New("classifier unavailable")
)
