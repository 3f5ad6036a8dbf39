// Package wasmpipe provides a byte-stream transport between a compiled
// WebAssembly engine and the Go host that drives it.
//
// The engine side of the boundary can only be entered through a small set of
// exported functions and cannot call host-supplied callbacks at arbitrary
// times. All interaction is therefore mediated through a pair of fixed-size
// shared buffers plus a control block, with a polling handshake instead of
// blocking primitives.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmpipe/        Root package with Transport, Reporter, Memory and Function interfaces
//	├── channel/     Shared buffers, control block, handshake and the buffered stream adapter
//	├── direct/      Direct-call transport for engines linked into the host process
//	├── frame/       Tagged, length-prefixed message emitter and scanner
//	├── engine/      Reference engine used to exercise transports end to end
//	├── host/        Host-side driver for wazero guest modules
//	├── errors/      Structured error types
//	└── cmd/         Demo CLI
//
// # Quick Start
//
// Run a request/response cycle against an in-process channel:
//
//	ch := channel.New()
//	stream := channel.NewStream(ch)
//
//	copy(ch.Input().Data(), "hello")
//	ch.SignalInputReady(5)
//
//	eng := engine.New(stream, stream)
//	eng.Echo()
//
//	if ch.HasOutput() {
//	    msgs, err := frame.Parse(ch.Output().Bytes())
//	    ch.AcknowledgeOutput()
//	    // ...
//	}
//
// Or bind to a WASM guest that exports the channel ABI:
//
//	guest, err := host.Bind(ctx, mod)
//	guest.Send(ctx, []byte("hello"))
//	guest.Invoke(ctx, "process_message")
//	out, err := guest.Receive(ctx)
//
// # Concurrency Model
//
// The channel is strictly single-turn and cooperative: host and engine never
// execute against it simultaneously, and control passes synchronously in one
// direction at a time. There are no locks, no wait/notify and no timeouts; a
// read that finds no data returns a zero count immediately. Channel, Stream
// and Guest are NOT safe for concurrent use.
package wasmpipe
