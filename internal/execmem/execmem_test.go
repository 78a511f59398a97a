//go:build unix

package execmem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocSealFree(t *testing.T) {
	t.Parallel()
	b, err := Alloc(4096)
	require.NoError(t, err)
	copy(b.Bytes(), []byte{0xc3})
	require.Equal(t, b.Addr(0)+1, b.Addr(1))
	require.NoError(t, b.Seal())
	require.NoError(t, b.Seal(), "seal is idempotent")
	require.Equal(t, byte(0xc3), b.Bytes()[0], "still readable after seal")
	require.NoError(t, b.Free())
	require.NoError(t, b.Free(), "free is idempotent")
}
