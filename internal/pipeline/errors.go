package pipeline

import "errors"

var (
	// ErrInvalidIdentifier is returned when a stage identifier is malformed
	// or escapes the restricted stage namespace. Rejection happens before
	// any lookup, so out-of-namespace names never reach the registry.
	ErrInvalidIdentifier = errors.New("pipeline: invalid stage identifier")

	// ErrUnknownStage is returned when a validated identifier names a module
	// path or function that is not registered.
	ErrUnknownStage = errors.New("pipeline: unknown stage")

	// ErrReservedParam is returned when a stage invocation declares the
	// reserved record-store parameter in its own parameter set.
	ErrReservedParam = errors.New("pipeline: reserved parameter redefined")
)
