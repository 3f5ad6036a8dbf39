// Package channel implements the shared-buffer synchronous channel that
// mediates all I/O between an engine and its host.
//
// A Channel is one input Buffer, one output Buffer and one Control block.
// The host copies request bytes into the input buffer and signals readiness;
// the engine drains them through a Stream, accumulates response bytes in the
// output buffer, and flushes; the host polls for output, copies it out and
// acknowledges. Only status flags change hands; there is no call stack
// shared across the boundary and no blocking anywhere.
//
// # Handshake
//
//	host:   copy into Input().Data(), SignalInputReady(n)
//	engine: Stream.Read until it returns 0
//	engine: Stream.Write / Stream.Flush
//	host:   HasOutput? copy Output().Bytes(), AcknowledgeOutput()
//
// Reset must be called between independent cycles; state is never cleared
// implicitly.
//
// # Caller Contract
//
// Buffer.Data hands out a mutable view of the data region. The channel
// cannot prevent the host from acknowledging before copying, or from writing
// outside the first Capacity bytes; both are documented caller obligations,
// not enforceable invariants. The channel bounds-checks only the writes it
// performs itself.
package channel
