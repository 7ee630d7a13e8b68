// Package apierr classifies failures of the remote translation and
// recognition calls and maps them to the messages shown to the user.
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindCredentialOrRequest
	KindRecognitionFailed
	KindMalformedResponse
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindCredentialOrRequest:
		return "credential or request error"
	case KindRecognitionFailed:
		return "recognition failed"
	case KindMalformedResponse:
		return "malformed response"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrCredentialOrRequest = errors.New("credential or request error")
	ErrRecognitionFailed   = errors.New("recognition failed")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrTimeout             = errors.New("operation timed out")
)

// Op identifies which remote call produced an error.
type Op string

const (
	OpTranslate Op = "translate"
	OpSubmit    Op = "submit"
	OpPoll      Op = "poll"
)

// Error is a failure of a single remote operation.
type Error struct {
	Kind       Kind
	Op         Op
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(k Kind) error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindCredentialOrRequest:
		return ErrCredentialOrRequest
	case KindRecognitionFailed:
		return ErrRecognitionFailed
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindTimeout:
		return ErrTimeout
	}
	return nil
}

func New(op Op, kind Kind, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Status builds a KindCredentialOrRequest error for an unexpected HTTP status.
func Status(op Op, statusCode int, body string) *Error {
	return &Error{Kind: KindCredentialOrRequest, Op: op, StatusCode: statusCode, Body: body}
}

func Malformed(op Op, body string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Op: op, Body: body, Err: err}
}

func InvalidInput(op Op, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

const (
	MsgTranslate         = "Error: Unable to translate text. Check API credentials."
	MsgRecognitionFailed = "Error: Failed to recognize text."
	MsgMalformed         = "Error: Unexpected response format."
	MsgTimeout           = "Error: Operation timed out after multiple retries."
	MsgImage             = "Error: Unable to process the image."
)

// UserMessage returns the text rendered to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return "Error: " + err.Error()
	}

	switch e.Kind {
	case KindCredentialOrRequest:
		if e.Op == OpTranslate {
			return MsgTranslate
		}
		if e.StatusCode != 0 {
			return fmt.Sprintf("Error recognizing text: %d, %s", e.StatusCode, e.Body)
		}
		return MsgImage
	case KindRecognitionFailed:
		return MsgRecognitionFailed
	case KindMalformedResponse:
		return MsgMalformed
	case KindTimeout:
		return MsgTimeout
	case KindInvalidInput:
		if e.Err != nil {
			return "Error: " + e.Err.Error()
		}
		return "Error: invalid input."
	}
	return "Error: " + err.Error()
}
