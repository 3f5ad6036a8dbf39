package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in a request/response cycle the error occurred
type Phase string

const (
	PhaseHandshake Phase = "handshake" // host-side buffer signaling
	PhaseRead      Phase = "read"      // engine pulling input bytes
	PhaseWrite     Phase = "write"     // engine pushing output bytes
	PhaseFlush     Phase = "flush"     // marking output ready
	PhaseFrame     Phase = "frame"     // framed message emit/parse
	PhaseBind      Phase = "bind"      // resolving guest exports
	PhaseHost      Phase = "host"      // host driving a bound guest
)

// Kind categorizes the error
type Kind string

const (
	KindNoData           Kind = "no_data"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindOutOfRange       Kind = "out_of_range"
	KindProtocol         Kind = "protocol"
	KindMissingExport    Kind = "missing_export"
	KindMemoryAccess     Kind = "memory_access"
	KindInvalidInput     Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Code   int32 // engine-reported error code, set for protocol errors
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Code != 0 {
		fmt.Fprintf(&b, " (code %d)", e.Code)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// NoData reports that the host polled for output and found none ready.
// It is an error only on the host side; an engine-side read that finds
// nothing returns a zero count with no error.
func NoData(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNoData,
		Detail: "no data ready",
	}
}

// CapacityExceeded reports a write that would overflow a bounded buffer.
// Nothing is copied when this is returned.
func CapacityExceeded(phase Phase, pending, n, capacity uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacityExceeded,
		Detail: fmt.Sprintf("%d pending + %d new exceeds capacity %d", pending, n, capacity),
	}
}

// OutOfRange reports a length or offset outside the declared bounds.
func OutOfRange(phase Phase, got, max uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("%d out of range (max %d)", got, max),
	}
}

// Protocol reports a mid-message failure with the engine's error code.
func Protocol(phase Phase, code int32, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindProtocol,
		Detail: detail,
		Code:   code,
	}
}

// MissingExport reports a guest module that lacks a required export.
func MissingExport(name string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindMissingExport,
		Detail: fmt.Sprintf("guest does not export %q", name),
	}
}

// MemoryAccess reports a failed read or write of guest linear memory.
func MemoryAccess(phase Phase, offset, byteCount uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMemoryAccess,
		Detail: fmt.Sprintf("%d bytes at offset %d out of memory range", byteCount, offset),
	}
}

// InvalidInput reports a malformed argument or wire value.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with phase and kind context.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
