// Package host implements the host side of the channel: binding to a WASM
// guest that exports the shared-buffer ABI, copying request bytes into its
// linear memory, driving its entry points, and draining its output.
//
// The guest owns the channel state; the host only learns its addresses
// through the exported accessors and then reads and writes the buffer data
// regions directly. Status and length words are never written by the host;
// every state transition goes through an exported function.
//
// # ABI
//
// A compatible guest exports nine functions (names overridable via Exports):
//
//	get_input_buffer() -> i32     get_output_buffer() -> i32
//	get_control() -> i32          get_buffer_size() -> i32
//	signal_input_ready(i32)       reset_buffers()
//	has_output() -> i32           get_output_length() -> i32
//	ack_output()
//
// Buffers are laid out as {status u32, length u32, data [size]u8} and the
// control block as {operation u32, error_code i32, read_offset u32,
// total_read u32, total_written u32}, all little-endian.
//
// For guests built against the older import-style ABI, a pair of imported
// read/write functions instead of polling buffers, see InstantiateBridge.
package host
