package search

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed search
type ErrorKind string

const (
	KindDiscovery ErrorKind = "discovery"
	KindTransport ErrorKind = "transport"
	KindHTTP      ErrorKind = "http"
	KindDecode    ErrorKind = "decode"
)

// Error is returned by Service.Search for every failure. Body holds a
// truncated copy of the response for HTTP and decode failures.
type Error struct {
	Kind   ErrorKind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDiscovery:
		return fmt.Sprintf("endpoint discovery failed: %v", e.Err)
	case KindTransport:
		return fmt.Sprintf("search request failed: %v", e.Err)
	case KindHTTP:
		return fmt.Sprintf("search failed with HTTP status %d: %s", e.Status, e.Body)
	case KindDecode:
		return fmt.Sprintf("failed to parse search response: %v. Response was: %s", e.Err, e.Body)
	default:
		return fmt.Sprintf("search failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a search *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
