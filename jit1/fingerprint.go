package jit1

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Fingerprint identifies a (program, swizzle table) pair.
type Fingerprint [32]byte

// FingerprintOf hashes the program and operand descriptor words. The
// program length is mixed in so the boundary between the two is part of
// the identity.
func FingerprintOf(words, swizzle []uint32) (ret Fingerprint) {
	h := blake3.New(32, nil)
	var b [4]byte
	for _, w := range words {
		binary.LittleEndian.PutUint32(b[:], w)
		h.Write(b[:])
	}
	binary.LittleEndian.PutUint32(b[:], uint32(len(words)))
	h.Write(b[:])
	for _, w := range swizzle {
		binary.LittleEndian.PutUint32(b[:], w)
		h.Write(b[:])
	}
	copy(ret[:], h.Sum(nil))
	return ret
}
