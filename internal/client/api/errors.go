package api

import (
	"fmt"

	"github.com/scribe-blog/scribe/internal/validate"
)

// TransportError is the uniform failure shape for any call that did not end
// in a 2xx. Status 0 means the request never produced a response (network
// failure, timeout); Message then carries the underlying error text.
type TransportError struct {
	Status      int
	Message     string
	FieldErrors validate.Errors

	cause error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport error: %s", e.Message)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.cause
}

// DecodeError reports a server response whose body did not match the expected
// schema. It fails fast instead of letting half-decoded values propagate.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
