package channel_test

import (
	stderrors "errors"
	"testing"

	"github.com/wasmpipe/wasmpipe/channel"
	"github.com/wasmpipe/wasmpipe/errors"
)

func TestSignalInputReady(t *testing.T) {
	ch := channel.New()

	copy(ch.Input().Data(), "hello")
	if err := ch.SignalInputReady(5); err != nil {
		t.Fatalf("signal: %v", err)
	}

	if got := ch.Input().Status(); got != channel.StatusReady {
		t.Errorf("input status = %v, want ready", got)
	}
	if got := ch.Input().Length(); got != 5 {
		t.Errorf("input length = %d, want 5", got)
	}
	if got := ch.Control().ReadOffset(); got != 0 {
		t.Errorf("read offset = %d, want 0", got)
	}
	if got := string(ch.Input().Bytes()); got != "hello" {
		t.Errorf("input bytes = %q, want %q", got, "hello")
	}
}

func TestSignalInputReadyRewindsCursor(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	copy(ch.Input().Data(), "first")
	if err := ch.SignalInputReady(5); err != nil {
		t.Fatalf("signal: %v", err)
	}
	buf := make([]byte, 16)
	if n, _ := s.Read(buf); n != 5 {
		t.Fatalf("read = %d, want 5", n)
	}

	copy(ch.Input().Data(), "second")
	if err := ch.SignalInputReady(6); err != nil {
		t.Fatalf("signal: %v", err)
	}
	n, _ := s.Read(buf)
	if n != 6 || string(buf[:n]) != "second" {
		t.Errorf("second read = %d %q, want 6 %q", n, buf[:n], "second")
	}
}

func TestSignalInputReadyOutOfRange(t *testing.T) {
	ch := channel.New()

	err := ch.SignalInputReady(channel.Capacity + 1)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseHandshake, Kind: errors.KindOutOfRange}) {
		t.Fatalf("err = %v, want out-of-range handshake error", err)
	}

	// Rejected signal must leave the channel untouched.
	if got := ch.Input().Status(); got != channel.StatusEmpty {
		t.Errorf("input status = %v, want empty", got)
	}
	if got := ch.Input().Length(); got != 0 {
		t.Errorf("input length = %d, want 0", got)
	}

	// Capacity itself is still in range.
	if err := ch.SignalInputReady(channel.Capacity); err != nil {
		t.Errorf("signal at capacity: %v", err)
	}
}

func TestAcknowledgeOutputIdempotent(t *testing.T) {
	ch := channel.New()

	if ch.HasOutput() {
		t.Fatal("fresh channel reports output")
	}

	// Acknowledging with nothing ready is a documented no-op.
	ch.AcknowledgeOutput()
	ch.AcknowledgeOutput()

	if ch.HasOutput() {
		t.Error("output became ready after no-op acknowledge")
	}
	if got := ch.OutputLength(); got != 0 {
		t.Errorf("output length = %d, want 0", got)
	}
}

func TestAcknowledgeOutputClears(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	if _, err := s.Write([]byte("result")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if !ch.HasOutput() {
		t.Fatal("no output after flush")
	}

	ch.AcknowledgeOutput()

	if ch.HasOutput() {
		t.Error("output still ready after acknowledge")
	}
	if got := ch.OutputLength(); got != 0 {
		t.Errorf("output length = %d, want 0", got)
	}
}

func TestResetCompleteness(t *testing.T) {
	ch := channel.New()
	s := channel.NewStream(ch)

	copy(ch.Input().Data(), "query")
	if err := ch.SignalInputReady(5); err != nil {
		t.Fatalf("signal: %v", err)
	}
	buf := make([]byte, 8)
	if _, err := s.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := s.Write([]byte("rows")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	s.Fail(-7)

	ch.Reset()

	if ch.HasOutput() {
		t.Error("output ready after reset")
	}
	if got := ch.OutputLength(); got != 0 {
		t.Errorf("output length = %d, want 0", got)
	}
	if got := ch.Input().Status(); got != channel.StatusEmpty {
		t.Errorf("input status = %v, want empty", got)
	}
	ctl := ch.Control()
	if got := ctl.Operation(); got != channel.OpNone {
		t.Errorf("operation = %v, want none", got)
	}
	if got := ctl.ErrorCode(); got != 0 {
		t.Errorf("error code = %d, want 0", got)
	}
	if got := ctl.TotalRead(); got != 0 {
		t.Errorf("total read = %d, want 0", got)
	}
	if got := ctl.TotalWritten(); got != 0 {
		t.Errorf("total written = %d, want 0", got)
	}
}

func TestStablePointers(t *testing.T) {
	ch := channel.New()

	in, out, ctl := ch.Input(), ch.Output(), ch.Control()
	ch.Reset()

	if ch.Input() != in || ch.Output() != out || ch.Control() != ctl {
		t.Error("buffer or control addresses changed across reset")
	}
}
