package channel

// Operation is the last coarse result recorded in the control block. It is
// not a state machine: each value is set once per engine turn, never chained.
type Operation uint32

const (
	// OpNone means no turn has run since the last reset.
	OpNone Operation = 0

	// OpReadRequest is reserved for an engine signaling that it wants more
	// input. The current handshake never produces it; the value is kept so
	// the ABI stays stable.
	OpReadRequest Operation = 1

	// OpWriteReady means the engine has output waiting to be drained.
	OpWriteReady Operation = 2

	// OpCompleted means the last turn finished successfully.
	OpCompleted Operation = 3

	// OpError means the last turn failed; ErrorCode carries the reason.
	OpError Operation = 4
)

func (o Operation) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpReadRequest:
		return "read-request"
	case OpWriteReady:
		return "write-ready"
	case OpCompleted:
		return "completed"
	case OpError:
		return "error"
	default:
		return "unknown"
	}
}

// Control tracks the outcome of the current engine turn plus cumulative byte
// counters for the lifetime of the channel. Counters are uint32 to keep
// layout parity with the guest ABI and reset only via Channel.Reset.
type Control struct {
	operation    Operation
	errorCode    int32
	readOffset   uint32
	totalRead    uint32
	totalWritten uint32
}

// Operation returns the last recorded operation outcome.
func (c *Control) Operation() Operation {
	return c.operation
}

// ErrorCode returns the engine-reported error code. It is meaningful only
// when Operation is OpError.
func (c *Control) ErrorCode() int32 {
	return c.errorCode
}

// ReadOffset returns the current read cursor into the input buffer.
func (c *Control) ReadOffset() uint32 {
	return c.readOffset
}

// TotalRead returns the cumulative count of bytes the engine has read.
func (c *Control) TotalRead() uint32 {
	return c.totalRead
}

// TotalWritten returns the cumulative count of bytes the engine has written.
func (c *Control) TotalWritten() uint32 {
	return c.totalWritten
}

func (c *Control) clear() {
	c.operation = OpNone
	c.errorCode = 0
	c.readOffset = 0
	c.totalRead = 0
	c.totalWritten = 0
}
