// Package errors provides error handling for simwire.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrSendTimeout) {
//	    // handle timeout
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Common sentinel errors for use across simwire.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrConfiguration indicates missing/invalid settings. Fatal, pre-start.
	ErrConfiguration = New("invalid configuration")

	// ErrConnectivity indicates the telemetry sink was unreachable during
	// the startup probe. Fatal, pre-start.
	ErrConnectivity = New("sink connectivity check failed")

	// ErrSendTimeout indicates a single telemetry send timed out.
	ErrSendTimeout = New("send timed out")

	// ErrSendConnection indicates a connection-level send failure
	// (DNS, refused, reset).
	ErrSendConnection = New("connection failed")

	// ErrSendRejected indicates the sink answered with a non-2xx status.
	ErrSendRejected = New("sink rejected telemetry")

	// ErrSourceClosed indicates the upstream text source is gone.
	ErrSourceClosed = New("text source closed")
)

// IsDeliveryError reports whether err is any per-record send failure.
// Delivery errors are local: counted and logged, never fatal to the loop.
func IsDeliveryError(err error) bool {
	return IsAny(err, ErrSendTimeout, ErrSendConnection, ErrSendRejected)
}
