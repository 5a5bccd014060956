package ledger

import "errors"

var (
	// ErrInvalidType indicates an unknown transaction type.
	ErrInvalidType = errors.New("ledger: invalid transaction type")
	// ErrCustomerRequired indicates a record without a customer snapshot.
	ErrCustomerRequired = errors.New("ledger: customer required")
)
