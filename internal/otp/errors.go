package otp

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies a failed fetch cycle.
type FetchErrorKind string

const (
	// FetchTimeout means the bounded fetch deadline elapsed.
	FetchTimeout FetchErrorKind = "timeout"
	// FetchTransport means the request could not be sent or read.
	FetchTransport FetchErrorKind = "transport"
	// FetchParse means the top-level response body was not decodable.
	FetchParse FetchErrorKind = "parse"
	// FetchUpstream means the service answered with a non-success status
	// or a GraphQL-level error.
	FetchUpstream FetchErrorKind = "upstream"
)

// FetchError is a per-cycle recoverable failure. The scheduler retains the
// previous snapshot and retries on the next tick.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrorKind extracts the FetchErrorKind from err, or empty when err is not a
// *FetchError.
func ErrorKind(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
