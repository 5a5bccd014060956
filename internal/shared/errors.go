package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition indicates a state change that the entity's
	// lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrAlreadyProcessed indicates the side effects of an approval were
	// applied before.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrPendingApproval indicates the order is frozen while a proposed
	// change awaits a decision.
	ErrPendingApproval = errors.New("pending approval outstanding")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
