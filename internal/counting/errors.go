package counting

import "errors"

var (
	// ErrDuplicateCount is returned when a list already holds an entry for
	// the product and location; the caller must merge explicitly.
	ErrDuplicateCount = errors.New("product already counted at this location")
	// ErrListCompleted is returned for any edit of a frozen list.
	ErrListCompleted = errors.New("count list is completed")
	// ErrNoActiveList is returned when no open list exists.
	ErrNoActiveList = errors.New("no active count list")
	// ErrNotInScope is returned when a scoped list receives a count for a
	// product outside its product filter.
	ErrNotInScope = errors.New("product not in list scope")
)
