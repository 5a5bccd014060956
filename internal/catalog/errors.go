package catalog

import "errors"

var (
	// ErrInvalidQuantity indicates a non-positive stock adjustment.
	ErrInvalidQuantity = errors.New("catalog: quantity must be positive")
	// ErrNegativePrice indicates a price below zero.
	ErrNegativePrice = errors.New("catalog: price must not be negative")
)
