package model

import "errors"

// Error taxonomy shared across the service. Packages wrap these
// sentinels with context via fmt.Errorf and %w; the HTTP layer maps
// them to status codes.
var (
	// ErrInvalidArgument marks malformed or missing request fields.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUpstreamGeneration marks a failed or unusable response from the
	// generative text service. Callers recover by serving the blueprint.
	ErrUpstreamGeneration = errors.New("upstream generation failed")

	// ErrUnauthenticated marks a missing or invalid caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound marks a lookup miss in the paper archive.
	ErrNotFound = errors.New("not found")
)
