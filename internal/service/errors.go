package service

import "errors"

var (
	// ErrNotFound means the requested server or token does not exist or has
	// expired.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the presented publish token is not recognized.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoMatch means the matchmaking cascade exhausted every permitted
	// tier without finding a live candidate.
	ErrNoMatch = errors.New("no matching server")

	// ErrCodeSpaceExhausted means fast-code generation gave up after
	// repeatedly colliding with live codes.
	ErrCodeSpaceExhausted = errors.New("fast token code space exhausted")
)
