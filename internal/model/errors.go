package model

import "errors"

var (
	// ErrInvalidParameter reports a bad window length, date range or input value.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDataUnavailable reports that the data source returned nothing usable.
	ErrDataUnavailable = errors.New("data unavailable")
)
