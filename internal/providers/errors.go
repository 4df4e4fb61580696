package providers

import (
	"errors"
	"fmt"
)

type authError struct {
	statusCode int
	message    string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

type statusError struct {
	statusCode int
	body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.statusCode, e.body)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from an HTTP status check.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.statusCode
	}
	var ae *authError
	if errors.As(err, &ae) {
		return ae.statusCode
	}
	return 0
}

func checkStatus(code int, body []byte) error {
	switch {
	case code == 401 || code == 403:
		return &authError{statusCode: code, message: string(body)}
	case code < 200 || code >= 300:
		return &statusError{statusCode: code, body: string(body)}
	}
	return nil
}
