package services

import (
	"errors"
	"fmt"
)

// Domain outcomes. Every lifecycle and RSVP operation returns one of these
// (or nil); handlers map them to HTTP statuses. None of them should ever
// escape as an unhandled fault.
var (
	// ErrNotFound: the referenced activity (or user) does not exist, or the
	// caller is not allowed to know it exists.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the actor lacks the role or ownership the action needs.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateRSVP: an RSVP with the same email is already on the activity.
	ErrDuplicateRSVP = errors.New("an RSVP with this email already exists for this activity")

	// ErrRSVPNotFound: cancel targeted an email with no matching RSVP entry.
	ErrRSVPNotFound = errors.New("no RSVP with that email on this activity")

	// ErrInvalidReference: a leader username did not resolve to a registered user.
	ErrInvalidReference = errors.New("leader username does not match a registered user")

	// ErrInvalidCredentials: login failed; deliberately does not say whether
	// the username or the password was wrong.
	ErrInvalidCredentials = errors.New("username or password is incorrect")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a persistence-layer failure. The caller may treat it
// as transient and retry; the services never retry themselves.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
