package review

import (
	"errors"
	"fmt"
)

// TransportError wraps a failure to reach the review endpoint.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("review endpoint: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SchemaError reports a response that does not match the review schema.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid review response: %s: %v", e.Reason, e.Err)
	}
	return "invalid review response: " + e.Reason
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ExhaustedError is recorded for a file once every attempt has failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("Failed to get a valid response after %d attempts", e.Attempts)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// IsSchemaError checks if an error is a schema validation failure.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsTransportError checks if an error came from contacting the endpoint.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
