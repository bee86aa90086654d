package domain

import "errors"

var (
	// ErrDuplicateEmail signup with an email that already has an account.
	ErrDuplicateEmail = errors.New("an account with this email already exists")

	// ErrInvalidCredentials login with no exact email+password match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAuthenticated an operation that needs a current user ran without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidMatchResponse the model reply was not the id of a known worker.
	ErrInvalidMatchResponse = errors.New("model did not return a valid worker id")

	// ErrMalformedEstimate the estimate JSON was missing required fields.
	ErrMalformedEstimate = errors.New("estimate response is missing required fields")

	// ErrExternalServiceUnavailable the generative API failed or timed out.
	ErrExternalServiceUnavailable = errors.New("assist service unavailable")
)
