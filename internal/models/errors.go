package models

import "errors"

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidTimeRange = errors.New("invalid time range (start after end)")
	ErrNoSymbols        = errors.New("at least one symbol is required")
)
