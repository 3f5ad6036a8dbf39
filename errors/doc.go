// Package errors provides structured error types for the wasmpipe library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Every failure at the channel layer is reported by return value;
// nothing panics and nothing is retried automatically.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.OutOfRange(errors.PhaseHandshake, length, channel.Capacity)
//	err := errors.CapacityExceeded(errors.PhaseWrite, pending, n, channel.Capacity)
//	err := errors.MissingExport("signal_input_ready")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree.
package errors
