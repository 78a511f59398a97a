package spec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffective(t *testing.T) {
	t.Parallel()
	require.Equal(t, CMP, CMP2.Effective())
	require.Equal(t, MADI, Op(0x33).Effective())
	require.Equal(t, MAD, Op(0x3f).Effective())
	require.Equal(t, MOV, MOV.Effective())
}

func TestInfo(t *testing.T) {
	t.Parallel()
	require.Equal(t, FamilyCommon, ADD.Info().Family)
	require.Equal(t, FamilyMAD, Op(0x3a).Info().Family)
	require.Equal(t, FamilyFlow, LOOP.Info().Family)
	require.Equal(t, FamilyTrivial, END.Info().Family)
	require.Equal(t, FamilyUnknown, Op(0x10).Info().Family)

	for _, o := range []Op{DPHI, DSTI, SGEI, SLTI, MADI} {
		require.True(t, o.Info().SrcInversed, "%v", o)
	}
	for _, o := range []Op{DPH, DST, SGE, SLT, MAD} {
		require.False(t, o.Info().SrcInversed, "%v", o)
	}
}

func TestAll(t *testing.T) {
	t.Parallel()
	all := All()
	require.Contains(t, all, END)
	require.Contains(t, all, MAD)
	require.Contains(t, all, EX2)
	require.NotContains(t, all, CMP2)
	require.NotContains(t, all, Op(0x07)) // reserved slot
}

func TestString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "mad", Op(0x3c).String())
	require.Equal(t, "cmp", CMP2.String())
	require.Equal(t, "unknown", Op(0x10).String())
}
