//go:build unix

// package execmem manages writable-then-executable code buffers.
package execmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Buf is an anonymous mapping that starts out writable and is sealed
// read-execute once code generation finishes.
type Buf struct {
	mem    []byte
	sealed bool
}

// Alloc maps size bytes of read-write memory.
func Alloc(size int) (*Buf, error) {
	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("execmem: mmap: %w", err)
	}
	return &Buf{mem: mem}, nil
}

// Bytes returns the mapping. Writes are only valid before Seal.
func (b *Buf) Bytes() []byte { return b.mem }

// Addr returns the address of byte off within the mapping.
func (b *Buf) Addr(off int) uintptr {
	return uintptr(unsafe.Pointer(&b.mem[off]))
}

// Seal remaps the buffer read-execute. After Seal the code may be called
// but no longer modified.
func (b *Buf) Seal() error {
	if b.sealed {
		return nil
	}
	if err := unix.Mprotect(b.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("execmem: mprotect: %w", err)
	}
	b.sealed = true
	return nil
}

// Free unmaps the buffer. The caller must guarantee no thread is executing
// from it.
func (b *Buf) Free() error {
	if b.mem == nil {
		return nil
	}
	err := unix.Munmap(b.mem)
	b.mem = nil
	return err
}
