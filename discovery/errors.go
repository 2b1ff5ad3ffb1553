package discovery

import (
	"errors"
	"fmt"
)

var (
	ErrPageFetchFailed         = errors.New("failed to fetch host page")
	ErrBundlePathNotFound      = errors.New("application bundle path not found in host page")
	ErrBundleFetchFailed       = errors.New("failed to fetch application bundle")
	ErrEndpointPatternNotFound = errors.New("search endpoint pattern not found in bundle")
	ErrKeyExtractionFailed     = errors.New("search key could not be extracted from bundle")
)

// Error is a typed discovery failure. Kind is one of the Err* sentinels, so
// callers can match with errors.Is(err, discovery.ErrBundleFetchFailed).
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}
