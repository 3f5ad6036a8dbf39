package channel_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/wasmpipe/wasmpipe/channel"
	"github.com/wasmpipe/wasmpipe/errors"
)

func signal(t *testing.T, ch *channel.Channel, payload []byte) {
	t.Helper()
	copy(ch.Input().Data(), payload)
	if err := ch.SignalInputReady(uint32(len(payload))); err != nil {
		t.Fatalf("signal %d bytes: %v", len(payload), err)
	}
}

func TestReadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload int
		chunk   int
	}{
		{"single byte", 1, 16},
		{"one chunk", 100, 1024},
		{"exact chunk", 1024, 1024},
		{"many chunks", 10000, 512},
		{"full capacity", channel.Capacity, 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := channel.New()
			s := channel.NewStream(ch)

			payload := make([]byte, tt.payload)
			for i := range payload {
				payload[i] = byte(i)
			}
			signal(t, ch, payload)

			var drained []byte
			buf := make([]byte, tt.chunk)
			for {
				n, err := s.Read(buf)
				if err != nil {
					t.Fatalf("read: %v", err)
				}
				if n == 0 {
					break
				}
				drained = append(drained, buf[:n]...)
			}

			if !bytes.Equal(drained, payload) {
				t.Errorf("drained %d bytes, want %d in original order", len(drained), len(payload))
			}
			if got := ch.Input().Status(); got != channel.StatusEmpty {
				t.Errorf("input status = %v after drain, want empty", got)
			}
			if got := ch.Control().TotalRead(); got != uint32(tt.payload) {
				t.Errorf("total read = %d, want %d", got, tt.payload)
			}
		})
	}
}

func TestReadNoDataIsZero(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	// Nothing signaled: zero-length read, no error. Indistinguishable from
	// end of stream on purpose.
	n, err := s.Read(make([]byte, 64))
	if n != 0 || err != nil {
		t.Errorf("read on empty channel = (%d, %v), want (0, nil)", n, err)
	}
}

func TestPartialRead(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)
	signal(t, ch, []byte("abcdefghij"))

	buf := make([]byte, 4)
	n, err := s.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 4 || string(buf[:n]) != "abcd" {
		t.Fatalf("first read = %d %q, want 4 %q", n, buf[:n], "abcd")
	}

	// Partially drained input stays ready.
	if got := ch.Input().Status(); got != channel.StatusReady {
		t.Errorf("input status = %v mid-drain, want ready", got)
	}

	rest := make([]byte, 16)
	n, err = s.Read(rest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 6 || string(rest[:n]) != "efghij" {
		t.Errorf("second read = %d %q, want 6 %q", n, rest[:n], "efghij")
	}
	if got := ch.Input().Status(); got != channel.StatusEmpty {
		t.Errorf("input status = %v after drain, want empty", got)
	}
}

func TestReadExactDrainFlipsEmpty(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)
	signal(t, ch, []byte("ten  bytes"))

	buf := make([]byte, 10)
	if n, _ := s.Read(buf); n != 10 {
		t.Fatalf("read = %d, want 10", n)
	}
	// The last byte flips the buffer to empty in the same call.
	if got := ch.Input().Status(); got != channel.StatusEmpty {
		t.Errorf("input status = %v, want empty", got)
	}
	if n, _ := s.Read(buf); n != 0 {
		t.Errorf("read after drain = %d, want 0", n)
	}
}

func TestWriteAccumulates(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	for _, chunk := range []string{"one", "two", "three"} {
		n, err := s.Write([]byte(chunk))
		if err != nil {
			t.Fatalf("write %q: %v", chunk, err)
		}
		if n != len(chunk) {
			t.Fatalf("write %q = %d, want %d", chunk, n, len(chunk))
		}
	}

	// Accumulated but not yet flushed.
	if ch.HasOutput() {
		t.Error("output ready before flush")
	}
	if got := string(ch.Output().Bytes()); got != "onetwothree" {
		t.Errorf("output bytes = %q, want %q", got, "onetwothree")
	}
	if got := ch.Control().TotalWritten(); got != 11 {
		t.Errorf("total written = %d, want 11", got)
	}
}

func TestWriteOverflow(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	first := bytes.Repeat([]byte{0xAB}, channel.Capacity-10)
	if _, err := s.Write(first); err != nil {
		t.Fatalf("fill write: %v", err)
	}

	_, err := s.Write(make([]byte, 11))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseWrite, Kind: errors.KindCapacityExceeded}) {
		t.Fatalf("err = %v, want capacity error", err)
	}

	// No partial copy; previously written bytes intact; host signaled to drain.
	if got := ch.OutputLength(); got != uint32(len(first)) {
		t.Errorf("output length = %d, want %d", got, len(first))
	}
	if !bytes.Equal(ch.Output().Bytes(), first) {
		t.Error("previously written bytes corrupted by rejected write")
	}
	if !ch.HasOutput() {
		t.Error("output not marked ready on overflow")
	}
	if got := ch.Control().Operation(); got != channel.OpWriteReady {
		t.Errorf("operation = %v, want write-ready", got)
	}

	// A write that exactly reaches capacity still succeeds.
	if _, err := s.Write(make([]byte, 10)); err != nil {
		t.Errorf("write to exact capacity: %v", err)
	}
}

func TestFlush(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	// Flushing an empty output is a no-op.
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if ch.HasOutput() {
		t.Error("empty flush marked output ready")
	}
	if got := ch.Control().Operation(); got != channel.OpNone {
		t.Errorf("operation = %v after empty flush, want none", got)
	}

	if _, err := s.Write([]byte("batch")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if !ch.HasOutput() {
		t.Error("output not ready after flush")
	}
	if got := ch.Control().Operation(); got != channel.OpWriteReady {
		t.Errorf("operation = %v, want write-ready", got)
	}
	// Flush marks, it does not clear.
	if got := ch.OutputLength(); got != 5 {
		t.Errorf("output length = %d after flush, want 5", got)
	}
}

func TestWriteAfterFlushKeepsAccumulating(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	if _, err := s.Write([]byte("head")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if _, err := s.Write([]byte("tail")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Unacknowledged output is never overwritten; later writes append.
	if got := string(ch.Output().Bytes()); got != "headtail" {
		t.Errorf("output bytes = %q, want %q", got, "headtail")
	}
}

func TestCompleteAndFail(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	s.Complete()
	if got := ch.Control().Operation(); got != channel.OpCompleted {
		t.Errorf("operation = %v, want completed", got)
	}

	s.Fail(-3)
	ctl := ch.Control()
	if got := ctl.Operation(); got != channel.OpError {
		t.Errorf("operation = %v, want error", got)
	}
	if got := ctl.ErrorCode(); got != -3 {
		t.Errorf("error code = %d, want -3", got)
	}
}

func TestCountersSurviveCycles(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)
	buf := make([]byte, 64)

	for cycle := 0; cycle < 3; cycle++ {
		signal(t, ch, []byte("ping"))
		if n, _ := s.Read(buf); n != 4 {
			t.Fatalf("cycle %d: read = %d, want 4", cycle, n)
		}
		if _, err := s.Write([]byte("pong!")); err != nil {
			t.Fatalf("cycle %d: write: %v", cycle, err)
		}
		if err := s.Flush(); err != nil {
			t.Fatalf("cycle %d: flush: %v", cycle, err)
		}
		ch.AcknowledgeOutput()
	}

	// Acknowledge clears buffers, not the lifetime counters.
	if got := ch.Control().TotalRead(); got != 12 {
		t.Errorf("total read = %d, want 12", got)
	}
	if got := ch.Control().TotalWritten(); got != 15 {
		t.Errorf("total written = %d, want 15", got)
	}
}
