// Package errs provides the structured error taxonomy used across the
// simulation core. Every failure mode named in the error handling design
// (asset-missing, save-corrupt, generation-impossible, invariant-violated,
// user-action-illegal) maps to one Code, so callers can branch on the kind
// of failure rather than parsing messages.
package errs

import (
	"errors"
	"fmt"
)

// Code categorizes why a core operation failed.
type Code string

const (
	// CodeAssetMissing means a required asset could not be located.
	// Fatal at startup.
	CodeAssetMissing Code = "asset_missing"
	// CodeSaveCorrupt means a save file failed to parse or described an
	// impossible state. Recoverable by falling back to a new game.
	CodeSaveCorrupt Code = "save_corrupt"
	// CodeGenerationImpossible means map generation could not produce a
	// valid level (no stairs, unreachable rooms) within its retry budget.
	CodeGenerationImpossible Code = "generation_impossible"
	// CodeInvariantViolated means an internal invariant was broken (actor
	// outside map bounds, a two-deep leader chain). Logged and swallowed
	// in release builds with the safest available correction.
	CodeInvariantViolated Code = "invariant_violated"
	// CodeUserActionIllegal means the player attempted an action the rules
	// disallow (wielding into the wrong slot, closing a broken door). No
	// turn is consumed.
	CodeUserActionIllegal Code = "user_action_illegal"
)

// Error is the structured error type returned by core operations.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "errs: nil error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Option configures an Error at construction time.
type Option func(*Error)

// WithMeta attaches a piece of diagnostic context to the error.
func WithMeta(key string, value any) Option {
	return func(e *Error) {
		if e.Meta == nil {
			e.Meta = make(map[string]any)
		}
		e.Meta[key] = value
	}
}

// New creates an Error with the given code and message.
func New(code Code, message string, opts ...Option) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a code and message, preserving the
// original as Cause.
func Wrap(code Code, err error, message string, opts ...Option) *Error {
	e := &Error{Code: code, Message: message, Cause: err}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CodeOf extracts the Code from any error; it returns "" and false if the
// error did not originate from this package.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// AssetMissing builds a fatal asset-missing error.
func AssetMissing(asset string, opts ...Option) *Error {
	return New(CodeAssetMissing, fmt.Sprintf("required asset missing: %s", asset), opts...)
}

// SaveCorrupt builds a save-corrupt error.
func SaveCorrupt(reason string, opts ...Option) *Error {
	return New(CodeSaveCorrupt, fmt.Sprintf("save file corrupt: %s", reason), opts...)
}

// GenerationImpossible builds a generation-impossible error.
func GenerationImpossible(reason string, opts ...Option) *Error {
	return New(CodeGenerationImpossible, fmt.Sprintf("generation impossible: %s", reason), opts...)
}

// InvariantViolated builds an invariant-violated error.
func InvariantViolated(reason string, opts ...Option) *Error {
	return New(CodeInvariantViolated, fmt.Sprintf("invariant violated: %s", reason), opts...)
}

// UserActionIllegal builds a user-action-illegal error. Callers that
// surface this to the message log must not consume a turn.
func UserActionIllegal(reason string, opts ...Option) *Error {
	return New(CodeUserActionIllegal, fmt.Sprintf("%s", reason), opts...)
}
