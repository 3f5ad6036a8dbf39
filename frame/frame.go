package frame

import (
	"encoding/binary"

	"github.com/wasmpipe/wasmpipe/errors"
)

const (
	// HeaderSize is the fixed size of a message header: tag + length.
	HeaderSize = 5

	// LengthSelfSize is the part of the declared length occupied by the
	// length field itself.
	LengthSelfSize = 4

	// MaxPayload bounds a single message payload. Matches the 1 MiB logical
	// message ceiling of the channel layer.
	MaxPayload = 1024*1024 - LengthSelfSize
)

// Message is one decoded frame.
type Message struct {
	Tag     byte
	Payload []byte
}

// PutHeader encodes a message header for a payload of n bytes into dst,
// which must hold at least HeaderSize bytes.
func PutHeader(dst []byte, tag byte, n int) {
	dst[0] = tag
	binary.BigEndian.PutUint32(dst[1:HeaderSize], uint32(n)+LengthSelfSize)
}

// Scanner decodes framed messages sequentially from a drained output
// buffer, in the bufio.Scanner style:
//
//	sc := frame.NewScanner(out)
//	for sc.Scan() {
//	    msg := sc.Message()
//	    ...
//	}
//	if err := sc.Err(); err != nil { ... }
//
// Payloads alias the scanned buffer; copy them if they must outlive it.
type Scanner struct {
	buf []byte
	off int
	msg Message
	err error
}

// NewScanner returns a scanner over buf.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Scan advances to the next message. It returns false at the end of the
// buffer or on the first malformed header; Err tells the two apart.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.off >= len(s.buf) {
		return false
	}

	rest := s.buf[s.off:]
	if len(rest) < HeaderSize {
		s.err = errors.InvalidInput(errors.PhaseFrame,
			"truncated header at end of buffer")
		return false
	}

	declared := binary.BigEndian.Uint32(rest[1:HeaderSize])
	if declared < LengthSelfSize {
		s.err = errors.InvalidInput(errors.PhaseFrame,
			"declared length shorter than the length field")
		return false
	}
	payloadLen := declared - LengthSelfSize
	if payloadLen > MaxPayload {
		s.err = errors.OutOfRange(errors.PhaseFrame, payloadLen, MaxPayload)
		return false
	}
	if uint32(len(rest)-HeaderSize) < payloadLen {
		s.err = errors.InvalidInput(errors.PhaseFrame,
			"truncated payload at end of buffer")
		return false
	}

	s.msg = Message{
		Tag:     rest[0],
		Payload: rest[HeaderSize : HeaderSize+payloadLen],
	}
	s.off += HeaderSize + int(payloadLen)
	return true
}

// Message returns the message produced by the last successful Scan.
func (s *Scanner) Message() Message {
	return s.msg
}

// Err returns the first decode error encountered, or nil if scanning
// stopped at a clean end of buffer.
func (s *Scanner) Err() error {
	return s.err
}

// Parse decodes every message in buf. Payloads alias buf.
func Parse(buf []byte) ([]Message, error) {
	var msgs []Message
	sc := NewScanner(buf)
	for sc.Scan() {
		msgs = append(msgs, sc.Message())
	}
	return msgs, sc.Err()
}
