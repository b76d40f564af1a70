package zpa

import "fmt"

// MissingCredentialError indicates a required credential field was unset or
// empty. It is raised during credential resolution, before any network call.
type MissingCredentialError struct {
	Field string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s", e.Field)
}

// AuthenticationError indicates the sign-in endpoint returned a non-2xx status.
type AuthenticationError struct {
	Status int
	Body   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("sign-in returned %d: %s", e.Status, e.Body)
}

// TokenExtractionError indicates the sign-in response was 2xx but the
// expected token field was absent, null or empty.
type TokenExtractionError struct {
	Field string
}

func (e *TokenExtractionError) Error() string {
	return fmt.Sprintf("sign-in response missing token field %q", e.Field)
}

// RequestError indicates an authenticated call returned a non-2xx status.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("zpa returned %d: %s", e.Status, e.Body)
}

// TransportError indicates a network-level failure (DNS, TLS, timeout)
// before any HTTP status was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
