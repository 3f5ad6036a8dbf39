package channel

import "github.com/wasmpipe/wasmpipe/errors"

// Stream is the buffered-polling stream adapter: the read/write/flush
// surface the engine calls in place of socket I/O. It is the sole consumer
// of input bytes and sole producer of output bytes on the engine side.
//
// Stream implements wasmpipe.Transport and wasmpipe.Reporter.
type Stream struct {
	ch *Channel
}

// NewStream returns a stream adapter over ch.
func NewStream(ch *Channel) *Stream {
	return &Stream{ch: ch}
}

// Read copies up to len(p) bytes of ready input into p, advancing the read
// cursor and the cumulative read counter. It returns (0, nil) both when no
// input has been signaled and when the signaled input is fully drained; the
// two cases are deliberately not distinguished, matching the socket recv the
// adapter stands in for. Once the last byte is copied the input buffer flips
// back to empty and the host must signal again before more can be read.
func (s *Stream) Read(p []byte) (int, error) {
	in := &s.ch.input
	ctl := &s.ch.control

	if in.status != StatusReady {
		return 0, nil
	}

	available := in.length - ctl.readOffset
	if available == 0 {
		in.status = StatusEmpty
		return 0, nil
	}

	n := uint32(len(p))
	if n > available {
		n = available
	}
	copy(p, in.data[ctl.readOffset:ctl.readOffset+n])
	ctl.readOffset += n
	ctl.totalRead += n

	if ctl.readOffset >= in.length {
		in.status = StatusEmpty
	}

	return int(n), nil
}

// Write appends p to the output buffer. Writes accumulate across calls into
// one logical batch until the host acknowledges; nothing is ever overwritten
// within a cycle.
//
// A write that would overflow copies nothing, marks the output ready and the
// operation write-ready so the host knows it must drain, and returns a
// capacity error. Previously written bytes stay intact; the host can drain
// and the engine can retry.
func (s *Stream) Write(p []byte) (int, error) {
	out := &s.ch.output
	ctl := &s.ch.control

	n := uint32(len(p))
	if out.length+n > Capacity {
		out.status = StatusReady
		ctl.operation = OpWriteReady
		return 0, errors.CapacityExceeded(errors.PhaseWrite, out.length, n, Capacity)
	}

	copy(out.data[out.length:], p)
	out.length += n
	ctl.totalWritten += n

	return int(n), nil
}

// Flush marks accumulated output as ready for the host to drain. It is a
// no-op when the output buffer is empty, and it never clears the buffer;
// only AcknowledgeOutput does that.
func (s *Stream) Flush() error {
	out := &s.ch.output

	if out.length > 0 {
		out.status = StatusReady
		s.ch.control.operation = OpWriteReady
	}
	return nil
}

// Complete records a successfully finished engine turn.
func (s *Stream) Complete() {
	s.ch.control.operation = OpCompleted
}

// Fail records a failed engine turn with the given error code. Output
// already written stays in place; the host must treat it as untrustworthy
// while the operation reads as error.
func (s *Stream) Fail(code int32) {
	s.ch.control.errorCode = code
	s.ch.control.operation = OpError
}
