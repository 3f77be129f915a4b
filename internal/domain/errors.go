package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidTimestamp is returned when a task's due timestamp cannot
	// be parsed. The task is excluded from the current scan; the scan
	// itself continues.
	ErrInvalidTimestamp = errors.New("invalid due timestamp")

	// ErrEmptySubjectID is returned when a notification key is missing
	// its subject identifier.
	ErrEmptySubjectID = errors.New("subject ID cannot be empty")

	// ErrEmptyRecipientID is returned when a notification key is missing
	// its recipient identifier.
	ErrEmptyRecipientID = errors.New("recipient ID cannot be empty")

	// ErrInvalidSubjectType is returned when a subject type is not one of
	// the known values.
	ErrInvalidSubjectType = errors.New("invalid subject type")

	// ErrInvalidCondition is returned when a notification condition is
	// not one of the known values.
	ErrInvalidCondition = errors.New("invalid notification condition")

	// ErrInvalidOutcome is returned when a delivery outcome is not one of
	// the known values.
	ErrInvalidOutcome = errors.New("invalid delivery outcome")

	// ErrEmptyUserID is returned when a user is missing its identifier.
	ErrEmptyUserID = errors.New("user ID cannot be empty")

	// ErrEmptyDisplayName is returned when a user has no display name.
	ErrEmptyDisplayName = errors.New("display name cannot be empty")
)
