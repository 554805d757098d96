package responder

import "errors"

// Sentinel errors for coordinator lifecycle and configuration.
var (
	// ErrAlreadyAttached is returned when Attach is called on an attached
	// coordinator.
	ErrAlreadyAttached = errors.New("coordinator already attached")

	// ErrNoBroadcaster is returned when Attach is called without a keyboard
	// broadcaster in the dependencies.
	ErrNoBroadcaster = errors.New("no keyboard broadcaster")

	// ErrNoContentHandle is returned when a scroll-target-into-view
	// measurement cannot run because the inner content node is unknown.
	ErrNoContentHandle = errors.New("no content view handle")

	// ErrInvalidPersistTaps is returned when parsing an unrecognized
	// tap-persistence value.
	ErrInvalidPersistTaps = errors.New("invalid keyboard persist-taps value")
)
