package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or expired session cookies.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the viewer may not see the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the post does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingBaseURL indicates the API origin was not configured.
	ErrMissingBaseURL = errors.New("api base url is not configured")

	// ErrInvalidAlgo indicates an unknown feed algorithm name.
	ErrInvalidAlgo = errors.New("invalid feed algorithm")
)
