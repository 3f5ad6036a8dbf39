package channel

import "github.com/wasmpipe/wasmpipe/errors"

// Channel is the shared state mediating all I/O between an engine and its
// host: one input buffer, one output buffer, one control block. It is owned
// by the engine side; the host only reaches it through the methods below
// plus direct byte copies into Input().Data() and out of Output().Bytes().
//
// A Channel is fixed-size, allocated once, and reused across cycles via
// Reset. It is not safe for concurrent use; the handshake assumes strictly
// alternating turns.
type Channel struct {
	input   Buffer
	output  Buffer
	control Control
}

// New returns a zero-initialized channel: both buffers empty, all counters
// zero.
func New() *Channel {
	return &Channel{}
}

// Input returns the input buffer. The pointer is stable for the lifetime of
// the channel.
func (c *Channel) Input() *Buffer {
	return &c.input
}

// Output returns the output buffer. The pointer is stable for the lifetime
// of the channel.
func (c *Channel) Output() *Buffer {
	return &c.output
}

// Control returns the control block. The pointer is stable for the lifetime
// of the channel.
func (c *Channel) Control() *Control {
	return &c.control
}

// SignalInputReady marks length bytes of the input buffer as ready for the
// engine to read and rewinds the read cursor. The caller must already have
// copied exactly length bytes into Input().Data().
//
// Lengths above Capacity are rejected with an out-of-range error and leave
// the channel untouched.
func (c *Channel) SignalInputReady(length uint32) error {
	if length > Capacity {
		return errors.OutOfRange(errors.PhaseHandshake, length, Capacity)
	}

	c.input.length = length
	c.input.status = StatusReady
	c.control.readOffset = 0
	return nil
}

// Reset returns both buffers to empty and zeroes the control block,
// cumulative counters included. It must be called between independent
// request/response cycles and is only safe between cycles, not mid-turn.
func (c *Channel) Reset() {
	c.input.clear()
	c.output.clear()
	c.control.clear()
}

// HasOutput reports whether the output buffer holds bytes ready to drain.
func (c *Channel) HasOutput() bool {
	return c.output.status == StatusReady
}

// OutputLength returns the output buffer's byte count. The value is only
// meaningful while HasOutput reports true.
func (c *Channel) OutputLength() uint32 {
	return c.output.length
}

// AcknowledgeOutput returns the output buffer to empty after the host has
// copied its bytes out. Acknowledging before copying loses the bytes
// silently; the channel has no way to tell. Calling it when no output is
// ready is a harmless no-op.
func (c *Channel) AcknowledgeOutput() {
	c.output.clear()
}
