package engine

import (
	"fmt"

	"github.com/wasmpipe/wasmpipe"
	"github.com/wasmpipe/wasmpipe/errors"
	"github.com/wasmpipe/wasmpipe/frame"
)

// Message tags, borrowed from the PostgreSQL wire protocol the byte stream
// carries in practice.
const (
	// TagResult marks the single response emitted by Echo.
	TagResult byte = 'R'

	// TagRow marks one data row emitted by Rows.
	TagRow byte = 'D'
)

// CodeNoInput is recorded when an entry point runs with no request bytes
// ready to read.
const CodeNoInput int32 = -1

const readChunk = 1024

// Engine drives request/response turns over a transport. It works the same
// over a buffered channel stream and over a direct-call transport; the
// selection happens at construction time, not at the call sites.
type Engine struct {
	transport wasmpipe.Transport
	reporter  wasmpipe.Reporter
	emitter   *frame.Emitter
}

// New returns an engine over t. reporter records turn outcomes and may be
// nil; when t is a channel.Stream, pass the stream for both.
func New(t wasmpipe.Transport, reporter wasmpipe.Reporter) *Engine {
	return &Engine{
		transport: t,
		reporter:  reporter,
		emitter:   frame.NewEmitter(t, reporter),
	}
}

// Echo runs one request/response turn: drain the pending request, uppercase
// its ASCII letters, and emit the result as a single TagResult message.
//
// With no input ready it records CodeNoInput and returns a no-data error
// without writing anything.
func (e *Engine) Echo() error {
	request, err := e.drain()
	if err != nil {
		return err
	}
	if len(request) == 0 {
		e.fail(CodeNoInput)
		return errors.NoData(errors.PhaseRead)
	}

	for i, c := range request {
		if c >= 'a' && c <= 'z' {
			request[i] = c - 'a' + 'A'
		}
	}

	if err := e.emitter.Emit(TagResult, request); err != nil {
		return err
	}
	if err := e.transport.Flush(); err != nil {
		return err
	}

	e.complete()
	return nil
}

// Rows emits n data rows as TagRow messages and flushes them as one batch.
// A mid-batch write failure aborts immediately; rows already written stay
// in the output and the recorded error code tells the host to discard them.
func (e *Engine) Rows(n int) error {
	for i := 1; i <= n; i++ {
		row := fmt.Sprintf("Row %d of %d\n", i, n)
		if err := e.emitter.Emit(TagRow, []byte(row)); err != nil {
			return err
		}
	}

	if err := e.transport.Flush(); err != nil {
		return err
	}

	e.complete()
	return nil
}

// drain reads until the transport reports no more data.
func (e *Engine) drain() ([]byte, error) {
	var request []byte
	buf := make([]byte, readChunk)
	for {
		n, err := e.transport.Read(buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return request, nil
		}
		request = append(request, buf[:n]...)
	}
}

func (e *Engine) complete() {
	if e.reporter != nil {
		e.reporter.Complete()
	}
}

func (e *Engine) fail(code int32) {
	if e.reporter != nil {
		e.reporter.Fail(code)
	}
}
