// Package errors provides error handling for the stop board.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, wrapping, and details that can carry raw diagnostic text alongside
// an error without polluting its message.
//
// Usage:
//
//	if err := fetch(); err != nil {
//	    return errors.Wrap(err, "stop 490008660N")
//	}
//
//	// Attach a raw response body for later display
//	return errors.WithDetail(err, body)
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New         = crdb.New
	Newf        = crdb.Newf
	Wrap        = crdb.Wrap
	Wrapf       = crdb.Wrapf
	WithStack   = crdb.WithStack
	WithMessage = crdb.WithMessage
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
	Mark      = crdb.Mark
)

// Sentinel errors. Wrap or Mark them to add context while keeping errors.Is working.
var (
	// ErrTransport indicates the request never produced a response
	// (connection refused, DNS, timeout).
	ErrTransport = New("transport failure")

	// ErrProtocol indicates a response arrived but was unusable
	// (non-success status or undecodable body).
	ErrProtocol = New("protocol failure")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = New("invalid configuration")
)

// IsTransportError checks if an error is or wraps ErrTransport
func IsTransportError(err error) bool {
	return err != nil && Is(err, ErrTransport)
}

// IsProtocolError checks if an error is or wraps ErrProtocol
func IsProtocolError(err error) bool {
	return err != nil && Is(err, ErrProtocol)
}

// Transport marks err as a transport failure with context.
func Transport(err error, context string) error {
	return Mark(Wrap(err, context), ErrTransport)
}

// Protocolf creates a protocol failure with a formatted message.
func Protocolf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrProtocol)
}
