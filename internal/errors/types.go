package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a forwarding failure.
type Kind string

const (
	KindEmptyPrompt           Kind = "empty_prompt"
	KindMissingCredential     Kind = "missing_credential"
	KindAuthFailure           Kind = "auth_failure"
	KindEmptyUpstreamResponse Kind = "empty_upstream_response"
	KindParseFailure          Kind = "parse_failure"
	KindUnexpectedFailure     Kind = "unexpected_failure"
)

// ForwardError is the single error type returned by the prompt forwarder.
// Raw is only populated for KindParseFailure and holds the unparsed upstream body.
type ForwardError struct {
	Kind    Kind
	Message string
	Raw     string
	Err     error
}

func (e *ForwardError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Err != nil && e.Err.Error() != e.Message {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ForwardError) Unwrap() error { return e.Err }

// HasRaw reports whether the error carries the unparsed upstream body.
func (e *ForwardError) HasRaw() bool {
	return e != nil && e.Kind == KindParseFailure
}

// New builds a ForwardError with the default message for kind.
func New(kind Kind) *ForwardError {
	return &ForwardError{Kind: kind, Message: DefaultMessage(kind)}
}

// Wrap builds a ForwardError of kind around cause.
func Wrap(kind Kind, cause error) *ForwardError {
	fe := New(kind)
	fe.Err = cause
	return fe
}

// Unexpected surfaces cause's message to the caller.
func Unexpected(cause error) *ForwardError {
	msg := "unknown error"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return &ForwardError{Kind: KindUnexpectedFailure, Message: msg, Err: cause}
}

// ParseFailure keeps the exact upstream body for diagnostics.
func ParseFailure(raw string) *ForwardError {
	fe := New(KindParseFailure)
	fe.Raw = raw
	return fe
}

// As extracts a *ForwardError from err, converting anything else into an
// unexpected failure.
func As(err error) *ForwardError {
	if err == nil {
		return nil
	}
	var fe *ForwardError
	if stderrors.As(err, &fe) && fe != nil {
		return fe
	}
	return Unexpected(err)
}

// KindOf returns the Kind of err, or "" for nil.
func KindOf(err error) Kind {
	if fe := As(err); fe != nil {
		return fe.Kind
	}
	return ""
}

// Is reports whether err is a ForwardError of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// DefaultMessage returns the caller-facing text for kind.
func DefaultMessage(kind Kind) string {
	switch kind {
	case KindEmptyPrompt:
		return "prompt is empty"
	case KindMissingCredential:
		return "no upstream credential configured: set GOOGLE_API_KEY or GOOGLE_SERVICE_KEY_PATH"
	case KindAuthFailure:
		return "failed to obtain access token"
	case KindEmptyUpstreamResponse:
		return "empty response from Gemini API"
	case KindParseFailure:
		return "failed to parse upstream response"
	default:
		return "unexpected error"
	}
}
