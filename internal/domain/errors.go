package domain

import "errors"

var (
	// ErrDuplicateEmail is returned when registering an email that already has an account.
	ErrDuplicateEmail = errors.New("account already exists")
	// ErrInvalidEmail indicates the email is empty or not a valid mailbox address.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidCredentials indicates a missing/weak password or a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is returned by repositories when no account matches.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidParticipant indicates a participant field is empty or outside the catalog sets.
	ErrInvalidParticipant = errors.New("invalid participant data")
	// ErrCapacityExceeded is returned when a distance has no remaining places.
	ErrCapacityExceeded = errors.New("distance capacity exceeded")
	// ErrUnknownDistance is returned for distances outside the catalog.
	ErrUnknownDistance = errors.New("unknown distance")
	// ErrStorageUnavailable wraps durable read/write failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
