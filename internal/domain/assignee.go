package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AssigneeRef is a tagged reference to the user assigned to a task or
// subtask: either a stable user identifier or a display-name string.
// The name form exists only for the legacy subtask-assignment flow and is
// resolved best-effort; identifier references are expected to always
// resolve.
type AssigneeRef struct {
	// UserID is set when the reference is identifier-based.
	UserID uuid.UUID

	// Name is set when the reference is name-based. It may carry
	// surrounding whitespace as entered; resolution normalizes it.
	Name string
}

// AssigneeByID creates an identifier-based assignee reference.
func AssigneeByID(id uuid.UUID) AssigneeRef {
	return AssigneeRef{UserID: id}
}

// AssigneeByName creates a name-based assignee reference.
func AssigneeByName(name string) AssigneeRef {
	return AssigneeRef{Name: name}
}

// IsID reports whether the reference is identifier-based.
func (r AssigneeRef) IsID() bool {
	return r.UserID != uuid.Nil
}

// String returns a loggable form of the reference.
func (r AssigneeRef) String() string {
	if r.IsID() {
		return "id:" + r.UserID.String()
	}
	return "name:" + r.Name
}

// MissReason explains why an assignee reference could not be resolved to
// a user.
type MissReason string

const (
	// MissUnknownID means an identifier-based reference did not match any
	// user. Identifiers are expected to always resolve, so this is logged
	// as a data-integrity signal.
	MissUnknownID MissReason = "unknown-id"

	// MissNotFound means a name-based reference matched no user.
	MissNotFound MissReason = "not-found"

	// MissAmbiguous means a name-based reference matched more than one
	// user. The resolver never guesses.
	MissAmbiguous MissReason = "ambiguous"
)

// ResolutionMiss is returned when an assignee reference cannot be
// resolved to a concrete user. It is a recoverable condition, not a
// fatal error: callers record it and move on.
//
// A resolved user with no email address is NOT a miss; distinguishing
// "resolved but no address" from "could not resolve" is what lets
// operators diagnose silent notification loss.
type ResolutionMiss struct {
	Ref    AssigneeRef
	Reason MissReason
}

// Error implements the error interface for ResolutionMiss.
func (m *ResolutionMiss) Error() string {
	return fmt.Sprintf("assignee %s could not be resolved: %s", m.Ref, m.Reason)
}

// AsResolutionMiss extracts a ResolutionMiss from an error chain, if
// present.
func AsResolutionMiss(err error) (*ResolutionMiss, bool) {
	var miss *ResolutionMiss
	if errors.As(err, &miss) {
		return miss, true
	}
	return nil, false
}
