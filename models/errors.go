package models

import "errors"

var (
	ErrUnsupportedAsset = errors.New("unsupported asset")
	ErrRateUnavailable  = errors.New("rate unavailable")
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
)
