package anki

import "fmt"

// ConnectionError reports that AnkiConnect could not be reached after
// exhausting the retry budget. Callers should tell the user to start Anki
// and check that the AnkiConnect add-on is enabled.
type ConnectionError struct {
	URL      string
	Attempts int
	cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to Anki at %s after %d attempts: %v. Please ensure Anki is running and the AnkiConnect add-on is installed and enabled", e.URL, e.Attempts, e.cause)
}

func (e *ConnectionError) Unwrap() error { return e.cause }

// TransportError reports that AnkiConnect was reached but the exchange failed
// at the HTTP level: a non-success status, or a non-timeout transport failure
// that is not worth retrying. Status is zero when no response was received.
type TransportError struct {
	Status int
	cause  error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("anki-connect request failed with status %d: %v", e.Status, e.cause)
	}
	return fmt.Sprintf("failed to communicate with anki-connect: %v", e.cause)
}

func (e *TransportError) Unwrap() error { return e.cause }

// APIError carries an error message reported by AnkiConnect itself in the
// response envelope. These are deterministic for a given request and are
// never retried.
type APIError struct {
	Action  Action
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anki-connect error for %s: %s", e.Action, e.Message)
}

// UnexpectedError wraps failures on the call path that are neither transport
// nor application errors, such as a request that cannot be serialized or a
// response body that is not valid JSON. Surfaced rather than swallowed so
// programming defects stay visible.
type UnexpectedError struct {
	cause error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error during anki-connect operation: %v", e.cause)
}

func (e *UnexpectedError) Unwrap() error { return e.cause }
