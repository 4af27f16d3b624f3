package favorites

import "errors"

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidID       = errors.New("invalid advertiser id")
)
