//go:build linux && amd64

package jit1

import (
	"context"
	"fmt"
	"runtime"
	"unsafe"

	"go.brendoncarroll.net/stdctx/logctx"

	"picaweb.org/picajit/internal/cpuid"
	"picaweb.org/picajit/internal/execmem"
)

// Shader is one compiled vertex shader program. It is safe to Run from
// multiple goroutines concurrently as long as each invocation gets its own
// UnitState.
type Shader struct {
	buf *execmem.Buf
	// entries maps an instruction offset to its code offset in buf.
	entries []int
	size    int
}

// Compile translates a shader program into native code. words is the
// program (at most 512 instructions); swizzle is the operand descriptor
// table. Both are copied into the compiler; the returned Shader is
// self-contained.
func Compile(ctx context.Context, words, swizzle []uint32) (*Shader, error) {
	h, err := loadHelpers()
	if err != nil {
		return nil, err
	}
	code, entries, err := compile(ctx, words, swizzle, cpuid.HasSSE41(), h)
	if err != nil {
		return nil, err
	}
	buf, err := execmem.Alloc(len(code))
	if err != nil {
		return nil, err
	}
	copy(buf.Bytes(), code)
	if err := buf.Seal(); err != nil {
		buf.Free()
		return nil, err
	}
	logctx.Debugf(ctx, "compiled shader size=%d", len(code))
	return &Shader{buf: buf, entries: entries, size: len(code)}, nil
}

// Size returns the emitted code size in bytes.
func (s *Shader) Size() int { return s.size }

// Run evaluates the shader starting at instruction offset entry. setup is
// read-only to the emitted code; st receives the outputs.
func (s *Shader) Run(setup *ShaderSetup, st *UnitState, entry int) {
	if entry < 0 || entry >= len(s.entries) {
		panic(fmt.Sprintf("jit1: entry offset %d out of range", entry))
	}
	jitcall(s.buf.Addr(0),
		uintptr(unsafe.Pointer(setup)),
		uintptr(unsafe.Pointer(st)),
		s.buf.Addr(s.entries[entry]))
	runtime.KeepAlive(setup)
	runtime.KeepAlive(st)
}

// Free releases the code buffer. The caller must guarantee the shader is
// not running.
func (s *Shader) Free() error {
	return s.buf.Free()
}

// jitcall invokes the compiled function: fn(setup, state, entry) under the
// System V calling convention. Implemented in invoke_amd64.s.
//
//go:noescape
func jitcall(fn, setup, state, entry uintptr)
