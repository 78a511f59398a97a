//go:build linux && amd64

package jit1

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

// loadHelpers resolves the foreign functions emitted code calls: exp2f and
// log2f from the system math library, and a callback shim that routes
// C-string diagnostics from generated code into the process logger.
var loadHelpers = sync.OnceValues(func() (helpers, error) {
	libm, err := purego.Dlopen("libm.so.6", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return helpers{}, fmt.Errorf("jit1: dlopen libm: %w", err)
	}
	exp2f, err := purego.Dlsym(libm, "exp2f")
	if err != nil {
		return helpers{}, fmt.Errorf("jit1: dlsym exp2f: %w", err)
	}
	log2f, err := purego.Dlsym(libm, "log2f")
	if err != nil {
		return helpers{}, fmt.Errorf("jit1: dlsym log2f: %w", err)
	}
	return helpers{
		exp2f:  exp2f,
		log2f:  log2f,
		logMsg: logShim,
	}, nil
})

// logShim is callable from emitted code with a C-string pointer argument.
var logShim = purego.NewCallback(func(msg uintptr) uintptr {
	logger.Error(goString(msg))
	return 0
})

var logger = zap.NewNop()

// SetLogger directs shader runtime diagnostics to l.
func SetLogger(l *zap.Logger) { logger = l }

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
