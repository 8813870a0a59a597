package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrIncompleteData      = errors.New("not enough data to perform the operation")
	ErrUnresolvedTie       = errors.New("tie requires a committee selection")
	ErrDuplicateSubmission = errors.New("submission already exists")
	ErrStaleState          = errors.New("request is stale against the current state")
	ErrFieldNotFinalized   = errors.New("bracket field has not been finalized")
	ErrFeedersIncomplete   = errors.New("both feeder matches must be decided first")
	ErrTieNotAllowed       = errors.New("knockout matches cannot end in a tie")
	ErrFinalNotDecided     = errors.New("final has not been decided")
	ErrUnknownMarginLabel  = errors.New("unknown margin of victory")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current role")

	// Entity-specific variants
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPodNotFound        = errors.New("pod not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPredictionNotFound = errors.New("prediction not found")
)
