package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasmpipe/wasmpipe"
)

// BridgeConfig names the import module and functions of the direct-call ABI.
type BridgeConfig struct {
	Module    string
	ReadName  string
	WriteName string
}

// DefaultBridgeConfig returns the import names used by the reference guest.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		Module:    "env",
		ReadName:  "host_read",
		WriteName: "host_write",
	}
}

// InstantiateBridge registers a host module satisfying the direct-call ABI
// under the default names:
//
//	(import "env" "host_read"  (func (param i32 i32) (result i32)))
//	(import "env" "host_write" (func (param i32 i32) (result i32)))
//
// Guests built against the import-style transport call these in place of
// the polling buffers; both sides of the boundary see the same read/write
// contract, served by t. Instantiate the bridge before the guest module so
// its imports resolve.
func InstantiateBridge(ctx context.Context, r wazero.Runtime, t wasmpipe.Transport) (api.Closer, error) {
	return InstantiateBridgeConfig(ctx, r, t, DefaultBridgeConfig())
}

// InstantiateBridgeConfig is InstantiateBridge with custom import names.
func InstantiateBridgeConfig(ctx context.Context, r wazero.Runtime, t wasmpipe.Transport, cfg BridgeConfig) (api.Closer, error) {
	b := &bridge{transport: t}

	i32 := []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	ret := []api.ValueType{api.ValueTypeI32}

	builder := r.NewHostModuleBuilder(cfg.Module)
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.read), i32, ret).
		Export(cfg.ReadName)
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(b.write), i32, ret).
		Export(cfg.WriteName)

	return builder.Instantiate(ctx)
}

// bridge adapts a Go transport to guest-callable read/write imports with
// ssize_t-style results: byte count on success, 0 for no data, -1 on
// failure.
type bridge struct {
	transport wasmpipe.Transport
}

func (b *bridge) read(ctx context.Context, mod api.Module, stack []uint64) {
	mem := mod.Memory()
	if mem == nil {
		stack[0] = result(-1)
		return
	}
	ptr, maxLen := uint32(stack[0]), uint32(stack[1])
	stack[0] = result(b.readInto(mem, ptr, maxLen))
}

func (b *bridge) write(ctx context.Context, mod api.Module, stack []uint64) {
	mem := mod.Memory()
	if mem == nil {
		stack[0] = result(-1)
		return
	}
	ptr, length := uint32(stack[0]), uint32(stack[1])
	stack[0] = result(b.writeFrom(mem, ptr, length))
}

// readInto pulls up to maxLen pending bytes from the transport into guest
// memory at ptr.
func (b *bridge) readInto(mem wasmpipe.Memory, ptr, maxLen uint32) int32 {
	if maxLen == 0 {
		return 0
	}

	buf := make([]byte, maxLen)
	n, err := b.transport.Read(buf)
	if err != nil {
		Logger().Debug("bridge read failed", zap.Error(err))
		return -1
	}
	if n == 0 {
		return 0
	}
	if !mem.Write(ptr, buf[:n]) {
		Logger().Debug("bridge read out of memory range",
			zap.Uint32("ptr", ptr), zap.Int("bytes", n))
		return -1
	}
	return int32(n)
}

// writeFrom pushes length bytes of guest memory at ptr into the transport.
func (b *bridge) writeFrom(mem wasmpipe.Memory, ptr, length uint32) int32 {
	if length == 0 {
		return 0
	}

	data, ok := mem.Read(ptr, length)
	if !ok {
		Logger().Debug("bridge write out of memory range",
			zap.Uint32("ptr", ptr), zap.Uint32("bytes", length))
		return -1
	}
	n, err := b.transport.Write(data)
	if err != nil {
		Logger().Debug("bridge write failed", zap.Error(err))
		return -1
	}
	return int32(n)
}

func result(n int32) uint64 {
	return uint64(uint32(n))
}
