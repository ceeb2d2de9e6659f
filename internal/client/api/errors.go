package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no access token is stored; the caller must
	// sign in before issuing authenticated requests.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionExpired means the one-shot refresh cycle failed; both tokens
	// have been cleared and a full re-login is required.
	ErrSessionExpired = errors.New("session expired")

	// ErrNetworkUnavailable is a transport-level failure before any response
	// was received.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrValidation marks client-side validation failures that are caught
	// before a request is dispatched.
	ErrValidation = errors.New("validation failed")
)

// RequestError is any non-2xx response that is not a token problem.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %d %s", e.Status, e.Message)
}
