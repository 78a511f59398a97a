//go:build linux && amd64

package jit1

import (
	"testing"

	"github.com/stretchr/testify/require"

	"picaweb.org/picajit/internal/testutil"
	"picaweb.org/picajit/spec"
)

func TestCache(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	c, err := NewCache(2)
	require.NoError(t, err)
	t.Cleanup(c.Purge)

	progA := []uint32{opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0), opTrivial(spec.END)}
	progB := []uint32{opCommon(spec.MOV, 0, dstO(1), srcV(0), 0, 0), opTrivial(spec.END)}
	swizzle := []uint32{descFull()}

	s1, err := c.Get(ctx, progA, swizzle)
	require.NoError(t, err)
	s2, err := c.Get(ctx, progA, swizzle)
	require.NoError(t, err)
	require.Same(t, s1, s2)
	require.Equal(t, 1, c.Len())

	s3, err := c.Get(ctx, progB, swizzle)
	require.NoError(t, err)
	require.NotSame(t, s1, s3)
	require.Equal(t, 2, c.Len())

	// A cached shader still runs.
	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	s2.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 2, 3, 4}, st.Output[0])
}

func TestCacheEviction(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	c, err := NewCache(1)
	require.NoError(t, err)
	t.Cleanup(c.Purge)

	swizzle := []uint32{descFull()}
	progA := []uint32{opTrivial(spec.END)}
	progB := []uint32{opTrivial(spec.NOP), opTrivial(spec.END)}

	_, err = c.Get(ctx, progA, swizzle)
	require.NoError(t, err)
	_, err = c.Get(ctx, progB, swizzle)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
}
