package models

import "errors"

// Domain-level sentinel errors for business logic
// These errors should not contain HTTP-specific information

var (
	// ErrCallNotFound indicates that a call with the given ID does not exist
	ErrCallNotFound = errors.New("call not found")

	// ErrCallExists indicates that a call row with the given ID was already
	// inserted by a concurrent caller (store unique-key violation)
	ErrCallExists = errors.New("call already exists")

	// ErrRegistryInconsistent indicates that a call could not be read back
	// after losing a creation race; this should never happen
	ErrRegistryInconsistent = errors.New("call registry inconsistent: row missing after duplicate-key conflict")

	// ErrInvalidTransition indicates a state change the transition table forbids
	ErrInvalidTransition = errors.New("invalid call state transition")
)
