// Package frame builds and parses the tagged, length-prefixed messages the
// reference engine emits into the output buffer.
//
// A message is a 5-byte header followed by the payload:
//
//	offset 0    1 tag byte
//	offset 1-4  u32 big-endian length = payload length + 4
//
// The length counts the payload plus the four length bytes themselves, but
// not the tag. The format matches the wire framing used by PostgreSQL-style
// protocols, which is what the byte stream carries in practice.
//
// Emitter writes a message as two transport writes (header, then payload).
// A failure between the two leaves a truncated message in the output buffer;
// the emitter reports the error through the control block and does not roll
// back. Hosts must discard output whenever the recorded operation is an
// error.
package frame
