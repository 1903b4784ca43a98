// Package services implements the business logic behind the controllers.
// File: services/errors.go
package services

import "errors"

var (
	// ErrInvalidIdentifier flags bad user input (non positive-integer
	// external id). Surfaced as a form validation message.
	ErrInvalidIdentifier = errors.New("identifier must be a positive integer")

	// ErrRemoteUnavailable flags a network or third-party failure when
	// talking to the remote catalog. Never fatal: callers degrade to
	// empty data.
	ErrRemoteUnavailable = errors.New("remote catalog is unavailable")

	// ErrAlreadyImported signals an idempotent no-op: the event was
	// imported before. Callers get the existing row alongside it.
	ErrAlreadyImported = errors.New("event already imported")

	// ErrMalformedPayload flags a bulk-import payload that cannot be
	// parsed at all (broken JSON for the structured formats).
	ErrMalformedPayload = errors.New("malformed import payload")
)
