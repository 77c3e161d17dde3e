package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure for the API surface. Every fault crossing
// the manager boundary is mapped to exactly one kind; nothing propagates
// unclassified.
type ErrorKind int

const (
	// KindInvalidRequest: the request itself is unusable (blank URL).
	KindInvalidRequest ErrorKind = iota
	// KindUpstreamUnavailable: the source returned nothing — private,
	// deleted, age-restricted or region-blocked content.
	KindUpstreamUnavailable
	// KindExtractionError: the upstream format is not understood by the
	// current extraction collaborator.
	KindExtractionError
	// KindFetchError: a transient network/download fault that survived
	// the retry budget.
	KindFetchError
	// KindArtifactMissing: the collaborator reported success but no file
	// resolved in the store.
	KindArtifactMissing
	// KindNotFound: the requested filename is absent.
	KindNotFound
)

// String returns the kind's wire-stable name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindExtractionError:
		return "extraction_error"
	case KindFetchError:
		return "fetch_error"
	case KindArtifactMissing:
		return "artifact_missing"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// HTTPStatus maps the kind to the response status it surfaces as.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest, KindUpstreamUnavailable, KindExtractionError:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a user-safe message. The wrapped
// cause is for logs only and never reaches the client.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error wrapping an optional cause.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// ErrorKindOf extracts the classification from err, or KindFetchError if
// err carries none (an unclassified fault is treated as a server-side one).
func ErrorKindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindFetchError
}

// UserMessage returns the message safe to show the client.
func UserMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return "internal error"
}
