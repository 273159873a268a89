package core

import (
	"errors"
	"fmt"
)

type Unit struct{}

// CommandError is the error type handlers return to signal a specific
// HTTP status and a caller-safe detail message.
type CommandError struct {
	Payload    interface{}
	StatusCode int
	Reason     *string
}

type CommandErrorOption func(*CommandError)

func WithReason(reason string) CommandErrorOption {
	return func(e *CommandError) {
		e.Reason = &reason
	}
}

func NewCommandError(statusCode int, payload interface{}, opts ...CommandErrorOption) CommandError {
	e := CommandError{
		StatusCode: statusCode,
		Payload:    payload,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func (r CommandError) Error() string {
	var values struct {
		Payload    interface{}
		StatusCode int
		Reason     string
	}

	values.Payload = r.Payload
	values.StatusCode = r.StatusCode

	if r.Reason != nil {
		values.Reason = *r.Reason
	}

	return fmt.Sprintf("%+v", values)
}

// Error taxonomy constructors. Reasons are stable, caller-safe detail
// messages; the payload stays server-side for logging.

func NewNotFoundError(payload interface{}, detail string) CommandError {
	return NewCommandError(404, payload, WithReason(detail))
}

func NewPermissionDeniedError(payload interface{}, detail string) CommandError {
	return NewCommandError(403, payload, WithReason(detail))
}

func NewNotAuthorizedError(payload interface{}, detail string) CommandError {
	return NewCommandError(401, payload, WithReason(detail))
}

func NewConflictError(payload interface{}, detail string) CommandError {
	return NewCommandError(409, payload, WithReason(detail))
}

func NewInternalError(payload interface{}) CommandError {
	return NewCommandError(500, payload, WithReason("internal server error"))
}

// TxError normalizes an error bubbling out of a transaction scope:
// command errors pass through untouched, anything else is masked as an
// internal error.
func TxError(err error) error {
	if err == nil {
		return nil
	}

	var commandErr CommandError
	if errors.As(err, &commandErr) {
		return commandErr
	}

	return NewInternalError(err)
}
