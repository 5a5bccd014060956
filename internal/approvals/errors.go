package approvals

import "errors"

var (
	// ErrInvalidType is returned for an unknown approval type.
	ErrInvalidType = errors.New("invalid approval type")
	// ErrBadPayload is returned when newData or oldData does not decode
	// into the shape the approval type requires.
	ErrBadPayload = errors.New("malformed approval payload")
)
