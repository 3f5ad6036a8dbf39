package frame

import (
	"github.com/wasmpipe/wasmpipe"
	"github.com/wasmpipe/wasmpipe/errors"
)

// Error codes the emitter records in the control block on a mid-message
// write failure. Negative by convention; zero is reserved for "no error".
const (
	CodeHeaderWrite  int32 = -2
	CodePayloadWrite int32 = -3
)

// Emitter builds framed messages on a transport. One Emit is two transport
// writes: header, then payload. The writes accumulate in the transport's
// output batch until the engine flushes.
type Emitter struct {
	transport wasmpipe.Transport
	reporter  wasmpipe.Reporter
}

// NewEmitter returns an emitter over t. reporter receives the error codes
// of failed emits and may be nil; when t is a channel.Stream, pass the same
// stream so failures land in the control block.
func NewEmitter(t wasmpipe.Transport, reporter wasmpipe.Reporter) *Emitter {
	return &Emitter{transport: t, reporter: reporter}
}

// Emit writes one message. On a write failure it records the matching error
// code, aborts, and returns a protocol error. Bytes already written are NOT
// rolled back: the output may hold a truncated message, and the host must
// treat a recorded error as "discard output".
func (e *Emitter) Emit(tag byte, payload []byte) error {
	if len(payload) > MaxPayload {
		return errors.OutOfRange(errors.PhaseFrame, uint32(len(payload)), MaxPayload)
	}

	var hdr [HeaderSize]byte
	PutHeader(hdr[:], tag, len(payload))

	if _, err := e.transport.Write(hdr[:]); err != nil {
		return e.abort(CodeHeaderWrite, "write message header", err)
	}
	if _, err := e.transport.Write(payload); err != nil {
		return e.abort(CodePayloadWrite, "write message payload", err)
	}
	return nil
}

func (e *Emitter) abort(code int32, detail string, cause error) error {
	if e.reporter != nil {
		e.reporter.Fail(code)
	}
	perr := errors.Protocol(errors.PhaseFrame, code, detail)
	perr.Cause = cause
	return perr
}
