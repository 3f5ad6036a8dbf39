package channel

const (
	// Capacity is the fixed size in bytes of each shared buffer.
	Capacity = 64 * 1024

	// MaxMessageSize is the logical ceiling for a framed message assembled
	// across buffer drains.
	MaxMessageSize = 1024 * 1024
)

// Status is the coarse state of a shared buffer.
type Status uint32

const (
	// StatusEmpty means the buffer holds no undelivered bytes.
	StatusEmpty Status = 0

	// StatusReady means the buffer holds bytes for the other side to drain.
	StatusReady Status = 1

	// StatusProcessing is reserved for a future half-duplex busy indication.
	// Nothing in the current handshake produces it; the value is kept so the
	// ABI stays stable.
	StatusProcessing Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	case StatusProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

// Buffer is a fixed-capacity byte container with a status flag and a count
// of valid bytes. Two live in every Channel, one per direction.
//
// length never exceeds Capacity and counts bytes written since the buffer
// last transitioned to empty.
type Buffer struct {
	status Status
	length uint32
	data   [Capacity]byte
}

// Status returns the buffer's current status flag.
func (b *Buffer) Status() Status {
	return b.status
}

// Length returns the number of valid bytes currently held.
func (b *Buffer) Length() uint32 {
	return b.length
}

// Data returns the full-capacity data region as a mutable view. The host
// writes request bytes here before SignalInputReady and reads response bytes
// here before AcknowledgeOutput. Writing past len(Data()) is impossible;
// writing bytes the status flag does not cover is the caller's problem.
func (b *Buffer) Data() []byte {
	return b.data[:]
}

// Bytes returns the valid prefix of the data region.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.length]
}

// clear returns the buffer to empty with no valid bytes. The data region is
// left as is; length going to zero is what invalidates it.
func (b *Buffer) clear() {
	b.status = StatusEmpty
	b.length = 0
}
