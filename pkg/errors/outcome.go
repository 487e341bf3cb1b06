package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/PancyStudios/PancyCommunityGo/pkg/logger"
)

// Rejection is a validation failure. Its message is meant for the user and
// the operation that produced it made no changes.
type Rejection struct {
	Message string
	Cause   error
}

func (r *Rejection) Error() string {
	if r.Cause != nil {
		return r.Message + ": " + r.Cause.Error()
	}
	return r.Message
}

func (r *Rejection) Unwrap() error { return r.Cause }

// Reject builds a Rejection with a user-facing message
func Reject(message string, cause error) error {
	return &Rejection{Message: message, Cause: cause}
}

// AsRejection extracts a Rejection from err
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if stderrors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// ActionError is a failed external side effect (role grant, message send,
// channel creation). It is logged and never shown to the user.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Action wraps err as an ActionError, nil stays nil
func Action(action string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Action: action, Err: err}
}

// LogAction logs a failed side effect at warn level and reports whether it
// succeeded. The caller carries on either way.
func LogAction(action string, err error, prefix string) bool {
	if err == nil {
		return true
	}
	logger.Warn(Action(action, err).Error(), prefix)
	return false
}

// Is and As re-export the standard helpers so callers importing this
// package do not need both.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// New re-exports errors.New
func New(text string) error { return stderrors.New(text) }
