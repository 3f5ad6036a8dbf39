package direct

import "github.com/wasmpipe/wasmpipe/errors"

// ReadFunc copies up to len(p) request bytes into p and returns the count.
// Returning 0 means no data, which callers cannot tell from end of stream.
type ReadFunc func(p []byte) (int, error)

// WriteFunc consumes len(p) response bytes and returns the count accepted.
type WriteFunc func(p []byte) (int, error)

// Transport is a direct-call transport: every Read and Write goes straight
// to the host-supplied function with no intermediate buffer, no status
// flags and no handshake. It satisfies wasmpipe.Transport and
// wasmpipe.Reporter so it can stand in for channel.Stream at configuration
// time.
type Transport struct {
	read  ReadFunc
	write WriteFunc

	// OnFlush, if set, runs on every Flush. Direct transports deliver
	// bytes eagerly, so most hosts leave it nil.
	OnFlush func()

	// OnComplete and OnFail, if set, receive the turn outcomes a buffered
	// transport would record in its control block.
	OnComplete func()
	OnFail     func(code int32)
}

// New returns a transport delegating to read and write.
func New(read ReadFunc, write WriteFunc) *Transport {
	return &Transport{read: read, write: write}
}

// Read delegates to the host read callback. A nil callback reads as a
// permanently empty stream.
func (t *Transport) Read(p []byte) (int, error) {
	if t.read == nil {
		return 0, nil
	}
	return t.read(p)
}

// Write delegates to the host write callback.
func (t *Transport) Write(p []byte) (int, error) {
	if t.write == nil {
		return 0, errors.InvalidInput(errors.PhaseWrite, "no write callback registered")
	}
	return t.write(p)
}

// Flush runs the OnFlush hook if any. There is no buffered state to mark.
func (t *Transport) Flush() error {
	if t.OnFlush != nil {
		t.OnFlush()
	}
	return nil
}

// Complete forwards a successful turn outcome to OnComplete, if set.
func (t *Transport) Complete() {
	if t.OnComplete != nil {
		t.OnComplete()
	}
}

// Fail forwards a failed turn outcome to OnFail, if set.
func (t *Transport) Fail(code int32) {
	if t.OnFail != nil {
		t.OnFail(code)
	}
}
