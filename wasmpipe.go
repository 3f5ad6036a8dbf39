package wasmpipe

import "context"

// Transport is the engine-facing byte stream contract. The engine calls Read
// to pull request bytes and Write/Flush to push response bytes, exactly as it
// would call a socket recv/send.
//
// Read never blocks: when no data is ready it returns (0, nil), which is
// indistinguishable from end of stream. Callers that need to tell the two
// apart must use an out-of-band signal.
type Transport interface {
	// Read copies up to len(p) pending bytes into p and returns the count.
	Read(p []byte) (int, error)

	// Write appends len(p) bytes to the pending output. A transport with a
	// bounded output rejects writes that would overflow, copies nothing, and
	// returns a capacity error.
	Write(p []byte) (int, error)

	// Flush marks accumulated output as ready for the host to drain.
	Flush() error
}

// Reporter records the coarse outcome of an engine turn. The buffered
// transport maps these onto the channel's control block; direct transports
// may forward them to callbacks or drop them.
type Reporter interface {
	// Complete records a successfully finished turn.
	Complete()

	// Fail records a failed turn with a method-specific negative code.
	Fail(code int32)
}

// Memory is the subset of wazero's api.Memory that the host side needs to
// copy bytes and read control words out of guest linear memory. Method
// shapes match api.Memory so any wazero memory satisfies it; tests provide
// flat byte-slice fakes.
type Memory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
	ReadUint32Le(offset uint32) (uint32, bool)
	WriteUint32Le(offset uint32, v uint32) bool
}

// Function is the callable subset of wazero's api.Function.
type Function interface {
	Call(ctx context.Context, params ...uint64) ([]uint64, error)
}
