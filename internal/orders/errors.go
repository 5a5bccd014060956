package orders

import "errors"

var (
	// ErrLoadConfirmationRequired indicates the order sits in loading and
	// can only move on through the explicit ConfirmLoad gate.
	ErrLoadConfirmationRequired = errors.New("orders: load confirmation required")
	// ErrNotReady indicates a delivery or route operation on an order that
	// has not reached the ready stage.
	ErrNotReady = errors.New("orders: order not ready")
	// ErrAlreadyRouted indicates the order already belongs to a route;
	// route membership is immutable.
	ErrAlreadyRouted = errors.New("orders: order already assigned to a route")
	// ErrNoProposer indicates quantity drift needs an approval proposal but
	// no proposer is wired.
	ErrNoProposer = errors.New("orders: change proposer not configured")
)
