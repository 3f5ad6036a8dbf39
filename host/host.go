package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasmpipe/wasmpipe"
	"github.com/wasmpipe/wasmpipe/channel"
	"github.com/wasmpipe/wasmpipe/errors"
)

// Shared buffer layout in guest memory, little-endian.
const (
	bufStatusOffset = 0
	bufLengthOffset = 4
	bufDataOffset   = 8
)

// Control block layout in guest memory, little-endian.
const (
	ctlOperationOffset    = 0
	ctlErrorCodeOffset    = 4
	ctlReadOffsetOffset   = 8
	ctlTotalReadOffset    = 12
	ctlTotalWrittenOffset = 16
)

// Exports names the guest functions making up the channel ABI.
type Exports struct {
	GetInputBuffer   string
	GetOutputBuffer  string
	GetControl       string
	GetBufferSize    string
	SignalInputReady string
	ResetBuffers     string
	HasOutput        string
	GetOutputLength  string
	AckOutput        string
}

// DefaultExports returns the export names used by the reference guest.
func DefaultExports() Exports {
	return Exports{
		GetInputBuffer:   "get_input_buffer",
		GetOutputBuffer:  "get_output_buffer",
		GetControl:       "get_control",
		GetBufferSize:    "get_buffer_size",
		SignalInputReady: "signal_input_ready",
		ResetBuffers:     "reset_buffers",
		HasOutput:        "has_output",
		GetOutputLength:  "get_output_length",
		AckOutput:        "ack_output",
	}
}

// Stats is a host-side snapshot of the guest's control block.
type Stats struct {
	Operation    channel.Operation
	ErrorCode    int32
	ReadOffset   uint32
	TotalRead    uint32
	TotalWritten uint32
}

// Guest is the host-side driver for a bound guest module. It is not safe
// for concurrent use; the channel handshake assumes strictly alternating
// turns.
type Guest struct {
	mem    wasmpipe.Memory
	lookup func(string) wasmpipe.Function

	signalInputReady wasmpipe.Function
	resetBuffers     wasmpipe.Function
	hasOutput        wasmpipe.Function
	getOutputLength  wasmpipe.Function
	ackOutput        wasmpipe.Function

	inputPtr   uint32
	outputPtr  uint32
	controlPtr uint32
	capacity   uint32
}

// Bind resolves the channel ABI on mod under the default export names.
func Bind(ctx context.Context, mod api.Module) (*Guest, error) {
	return BindExports(ctx, mod, DefaultExports())
}

// BindExports resolves the channel ABI on mod under the given export names,
// caching the buffer and control block addresses for the lifetime of the
// module instance. The guest guarantees those addresses are stable.
func BindExports(ctx context.Context, mod api.Module, exp Exports) (*Guest, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseBind, "guest module has no memory")
	}
	lookup := func(name string) wasmpipe.Function {
		if fn := mod.ExportedFunction(name); fn != nil {
			return fn
		}
		return nil
	}
	return bind(ctx, mem, lookup, exp)
}

func bind(ctx context.Context, mem wasmpipe.Memory, lookup func(string) wasmpipe.Function, exp Exports) (*Guest, error) {
	g := &Guest{mem: mem, lookup: lookup}

	required := []struct {
		name string
		dst  *wasmpipe.Function
	}{
		{exp.SignalInputReady, &g.signalInputReady},
		{exp.ResetBuffers, &g.resetBuffers},
		{exp.HasOutput, &g.hasOutput},
		{exp.GetOutputLength, &g.getOutputLength},
		{exp.AckOutput, &g.ackOutput},
	}
	for _, r := range required {
		fn := lookup(r.name)
		if fn == nil {
			return nil, errors.MissingExport(r.name)
		}
		*r.dst = fn
	}

	var err error
	if g.inputPtr, err = g.callU32(ctx, lookup, exp.GetInputBuffer); err != nil {
		return nil, err
	}
	if g.outputPtr, err = g.callU32(ctx, lookup, exp.GetOutputBuffer); err != nil {
		return nil, err
	}
	if g.controlPtr, err = g.callU32(ctx, lookup, exp.GetControl); err != nil {
		return nil, err
	}
	if g.capacity, err = g.callU32(ctx, lookup, exp.GetBufferSize); err != nil {
		return nil, err
	}
	if g.capacity == 0 {
		return nil, errors.InvalidInput(errors.PhaseBind, "guest reports zero buffer capacity")
	}

	Logger().Debug("bound guest channel",
		zap.Uint32("input_ptr", g.inputPtr),
		zap.Uint32("output_ptr", g.outputPtr),
		zap.Uint32("control_ptr", g.controlPtr),
		zap.Uint32("capacity", g.capacity))

	return g, nil
}

func (g *Guest) callU32(ctx context.Context, lookup func(string) wasmpipe.Function, name string) (uint32, error) {
	fn := lookup(name)
	if fn == nil {
		return 0, errors.MissingExport(name)
	}
	res, err := fn.Call(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseBind, errors.KindInvalidInput, err, "call "+name)
	}
	if len(res) == 0 {
		return 0, errors.InvalidInput(errors.PhaseBind, name+" returned no value")
	}
	return uint32(res[0]), nil
}

// Capacity returns the guest's per-buffer capacity in bytes.
func (g *Guest) Capacity() uint32 {
	return g.capacity
}

// Send copies p into the guest's input buffer and signals it ready. The
// payload must fit in one buffer; larger requests are rejected up front
// with an out-of-range error and nothing is copied.
func (g *Guest) Send(ctx context.Context, p []byte) error {
	if uint32(len(p)) > g.capacity {
		return errors.OutOfRange(errors.PhaseHandshake, uint32(len(p)), g.capacity)
	}
	if len(p) > 0 && !g.mem.Write(g.inputPtr+bufDataOffset, p) {
		return errors.MemoryAccess(errors.PhaseHandshake, g.inputPtr+bufDataOffset, uint32(len(p)))
	}
	if _, err := g.signalInputReady.Call(ctx, uint64(len(p))); err != nil {
		return errors.Wrap(errors.PhaseHandshake, errors.KindInvalidInput, err, "signal input ready")
	}

	Logger().Debug("sent request", zap.Int("bytes", len(p)))
	return nil
}

// HasOutput reports whether the guest has output ready to drain.
func (g *Guest) HasOutput(ctx context.Context) (bool, error) {
	res, err := g.hasOutput.Call(ctx)
	if err != nil {
		return false, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "poll output")
	}
	return len(res) > 0 && res[0] != 0, nil
}

// Receive drains the guest's output buffer: polls readiness, copies the
// bytes out of guest memory, and acknowledges so the guest can write again.
// When nothing is ready it returns a no-data error, which the caller can
// treat as "poll again later".
func (g *Guest) Receive(ctx context.Context) ([]byte, error) {
	ready, err := g.HasOutput(ctx)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, errors.NoData(errors.PhaseHost)
	}

	res, err := g.getOutputLength.Call(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "get output length")
	}
	length := uint32(res[0])
	if length > g.capacity {
		return nil, errors.OutOfRange(errors.PhaseHost, length, g.capacity)
	}

	var out []byte
	if length > 0 {
		view, ok := g.mem.Read(g.outputPtr+bufDataOffset, length)
		if !ok {
			return nil, errors.MemoryAccess(errors.PhaseHost, g.outputPtr+bufDataOffset, length)
		}
		// The view aliases guest memory; copy before acknowledging.
		out = make([]byte, length)
		copy(out, view)
	}

	if _, err := g.ackOutput.Call(ctx); err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "acknowledge output")
	}

	Logger().Debug("received response", zap.Uint32("bytes", length))
	return out, nil
}

// Reset clears both guest buffers and the control block. Call it between
// independent request/response cycles; the guest never clears state
// implicitly.
func (g *Guest) Reset(ctx context.Context) error {
	if _, err := g.resetBuffers.Call(ctx); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "reset buffers")
	}
	return nil
}

// Stats reads the guest's control block directly out of linear memory.
func (g *Guest) Stats(ctx context.Context) (Stats, error) {
	offsets := [...]uint32{
		ctlOperationOffset,
		ctlErrorCodeOffset,
		ctlReadOffsetOffset,
		ctlTotalReadOffset,
		ctlTotalWrittenOffset,
	}

	var raw [len(offsets)]uint32
	for i, off := range offsets {
		v, ok := g.mem.ReadUint32Le(g.controlPtr + off)
		if !ok {
			return Stats{}, errors.MemoryAccess(errors.PhaseHost, g.controlPtr+off, 4)
		}
		raw[i] = v
	}

	return Stats{
		Operation:    channel.Operation(raw[0]),
		ErrorCode:    int32(raw[1]),
		ReadOffset:   raw[2],
		TotalRead:    raw[3],
		TotalWritten: raw[4],
	}, nil
}

// Err maps the guest's recorded operation to an error: a protocol error
// carrying the guest's error code when the last turn failed, nil otherwise.
// Output accompanying a failed turn must be discarded.
func (g *Guest) Err(ctx context.Context) error {
	stats, err := g.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.Operation == channel.OpError {
		return errors.Protocol(errors.PhaseHost, stats.ErrorCode, "guest reported failure")
	}
	return nil
}

// Invoke runs a guest entry point by name and then checks the control
// block, so a turn the guest marked failed comes back as an error even when
// the call itself returned cleanly.
func (g *Guest) Invoke(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := g.lookup(name)
	if fn == nil {
		return nil, errors.MissingExport(name)
	}
	res, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "invoke "+name)
	}
	if err := g.Err(ctx); err != nil {
		return res, err
	}
	return res, nil
}
