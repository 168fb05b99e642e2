// Package errors provides coded errors shared by the dungeon builder, the
// CLI and the HTTP API.
//
// Every failure a caller may want to act on carries a [Code]. Codes are
// grouped into a [Kind], which the HTTP API maps to a status.
//
//   - INVALID_*: the level, a graph, a template or a path is malformed
//   - NOT_FOUND, FILE_NOT_FOUND: a named thing does not exist
//   - NO_ENTRANCE_NODE, NO_GRAPHS_AVAILABLE, DUPLICATE_TEMPLATE_ID,
//     BUILD_FAILED: the builder gave up on an attempt or on the level
//   - UNSUPPORTED, INTERNAL_ERROR: everything else
//
// Only NO_GRAPHS_AVAILABLE and BUILD_FAILED end a build. NO_ENTRANCE_NODE
// fails a single attempt and DUPLICATE_TEMPLATE_ID is only ever logged.
//
//	err := errors.New(errors.ErrCodeNoGraphsAvailable, "level %q has no room graphs", name)
//	if errors.Terminal(err) {
//	    return err
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidLevel    Code = "INVALID_LEVEL"
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNoEntranceNode      Code = "NO_ENTRANCE_NODE"
	ErrCodeNoGraphsAvailable   Code = "NO_GRAPHS_AVAILABLE"
	ErrCodeDuplicateTemplateID Code = "DUPLICATE_TEMPLATE_ID"
	ErrCodeBuildFailed         Code = "BUILD_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who has to fix the problem.
type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindNotFound
	KindBuild
	KindUnsupported
)

var kinds = map[Code]Kind{
	ErrCodeInvalidInput:        KindInput,
	ErrCodeInvalidLevel:        KindInput,
	ErrCodeInvalidGraph:        KindInput,
	ErrCodeInvalidTemplate:     KindInput,
	ErrCodeInvalidPath:         KindInput,
	ErrCodeNotFound:            KindNotFound,
	ErrCodeFileNotFound:        KindNotFound,
	ErrCodeNoEntranceNode:      KindBuild,
	ErrCodeNoGraphsAvailable:   KindBuild,
	ErrCodeDuplicateTemplateID: KindBuild,
	ErrCodeBuildFailed:         KindBuild,
	ErrCodeUnsupported:         KindUnsupported,
}

// Kind returns the group c belongs to. Unknown codes are internal.
func (c Code) Kind() Kind {
	return kinds[c]
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message[: cause]".
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// outermost finds the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
// Codes of errors wrapped further down are ignored.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// KindOf returns the kind of err's code. Uncoded errors are internal.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// UserMessage returns the message without the code prefix and cause.
// Uncoded errors are returned as-is.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// Terminal reports whether err ends a build instead of failing one attempt.
func Terminal(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoGraphsAvailable, ErrCodeBuildFailed:
		return true
	}
	return false
}
