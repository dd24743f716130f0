package client

import "errors"

var (
	// ErrUnavailable means the server could not be reached or answered with
	// a non-OK health status.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized means credentials or tokens were rejected.
	ErrUnauthorized = errors.New("unauthorized")
)
