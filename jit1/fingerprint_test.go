package jit1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()
	a := []uint32{1, 2, 3}
	b := []uint32{4, 5}
	require.Equal(t, FingerprintOf(a, b), FingerprintOf(a, b))
	require.NotEqual(t, FingerprintOf(a, b), FingerprintOf(b, a))
	// The program length is part of the hash: moving a word across the
	// boundary must change the fingerprint.
	require.NotEqual(t,
		FingerprintOf([]uint32{1, 2}, []uint32{3}),
		FingerprintOf([]uint32{1}, []uint32{2, 3}))
}
