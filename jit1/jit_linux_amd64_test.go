//go:build linux && amd64

package jit1

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"picaweb.org/picajit/internal/testutil"
	"picaweb.org/picajit/picaisa"
	"picaweb.org/picajit/spec"
)

func opCommonInv(op spec.Op, desc, dest, src1, src2, addrIdx uint32) uint32 {
	return uint32(op)<<26 | dest<<21 | addrIdx<<19 | src1<<14 | src2<<7 | desc
}

func opMADI(desc, dest, src1, src2, src3 uint32) uint32 {
	return uint32(spec.MADI)<<26 | dest<<24 | src1<<17 | src2<<12 | src3<<5 | desc
}

// flowCond packs the condition fields of a flow control word.
func flowCond(op picaisa.CondOp, refx, refy uint32) uint32 {
	return uint32(op) | refy<<2 | refx<<3
}

func mustCompile(t *testing.T, words, swizzle []uint32) *Shader {
	t.Helper()
	ctx := testutil.Context(t)
	s, err := Compile(ctx, words, swizzle)
	require.NoError(t, err)
	t.Cleanup(func() { s.Free() })
	return s
}

var (
	inf32 = float32(math.Inf(1))
	nan32 = float32(math.NaN())
)

func TestPassThrough(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 2, 3, 4}, st.Output[0])
}

func TestDP4(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.DP4, 0, dstO(0), srcV(0), srcV(1), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	st.Input[1] = Vec4{5, 6, 7, 8}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{70, 70, 70, 70}, st.Output[0])
}

func TestDP3(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.DP3, 0, dstO(0), srcV(0), srcV(1), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 100}
	st.Input[1] = Vec4{4, 5, 6, 100}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{32, 32, 32, 32}, st.Output[0])
}

func TestDPH(t *testing.T) {
	t.Parallel()
	// dph forces src1.w to one before the dot product.
	s := mustCompile(t, []uint32{
		opCommon(spec.DPH, 0, dstO(0), srcV(0), srcV(1), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 999}
	st.Input[1] = Vec4{1, 1, 1, 10}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{16, 16, 16, 16}, st.Output[0])
}

func TestDPHI(t *testing.T) {
	t.Parallel()
	// dphi swaps the operand fields: src1 is the narrow one.
	s := mustCompile(t, []uint32{
		opCommonInv(spec.DPHI, 0, dstO(0), srcV(0), srcC(1), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	setup.F[1] = Vec4{1, 1, 1, 10}
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 999}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{16, 16, 16, 16}, st.Output[0])
}

func TestNaNSanitizedMul(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.MUL, 0, dstO(0), srcV(0), srcV(1), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{0, 2, inf32, nan32}
	st.Input[1] = Vec4{inf32, 3, 0, 1}
	s.Run(&setup, &st, 0)

	out := st.Output[0]
	require.Equal(t, float32(0), out[0])
	require.Equal(t, float32(6), out[1])
	require.Equal(t, float32(0), out[2])
	require.True(t, math.IsNaN(float64(out[3])))
}

func TestDestMask(t *testing.T) {
	t.Parallel()
	// Write X and Z only.
	xz := desc(0xa, picaisa.IdentitySelector, picaisa.IdentitySelector, picaisa.IdentitySelector, false, false, false)
	s := mustCompile(t, []uint32{
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}, []uint32{xz})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	st.Output[0] = Vec4{9, 9, 9, 9}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 9, 3, 9}, st.Output[0])
}

func TestSwizzleNegate(t *testing.T) {
	t.Parallel()
	// mov o0, -v0.wzyx
	wzyx := desc(picaisa.FullDestMask, 0xe4, picaisa.IdentitySelector, picaisa.IdentitySelector, true, false, false)
	s := mustCompile(t, []uint32{
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}, []uint32{wzyx})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{-4, -3, -2, -1}, st.Output[0])
}

func TestIfElse(t *testing.T) {
	t.Parallel()
	words := []uint32{
		opFlow(spec.IFU, 2, 1, 0), // else region is [2, 3)
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opCommon(spec.MOV, 0, dstO(0), srcV(1), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var st UnitState
	st.Input[0] = Vec4{1, 0, 0, 0}
	st.Input[1] = Vec4{2, 0, 0, 0}

	var setup ShaderSetup
	setup.B[0] = false
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{2, 0, 0, 0}, st.Output[0])

	setup.B[0] = true
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 0, 0, 0}, st.Output[0])
}

func TestIfNoElse(t *testing.T) {
	t.Parallel()
	words := []uint32{
		opFlow(spec.IFU, 2, 0, 0), // empty else: fall through on false
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{5, 5, 5, 5}
	st.Output[0] = Vec4{1, 1, 1, 1}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 1, 1, 1}, st.Output[0])

	setup.B[0] = true
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{5, 5, 5, 5}, st.Output[0])
}

func loopProgram() ([]uint32, []uint32) {
	words := []uint32{
		opFlow(spec.LOOP, 1, 0, 0),
		opCommon(spec.ADD, 0, dstR(0), srcC(0), srcR(0), 0),
		opCommon(spec.MOV, 0, dstO(0), srcR(0), 0, 0),
		opTrivial(spec.END),
	}
	return words, []uint32{descFull()}
}

func TestLoopSum(t *testing.T) {
	t.Parallel()
	words, swizzle := loopProgram()
	s := mustCompile(t, words, swizzle)

	var setup ShaderSetup
	setup.F[0] = Vec4{1, 1, 1, 1}
	setup.I[0] = [4]uint8{2, 0, 0, 0} // executes count+1 = 3 iterations
	var st UnitState
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{3, 3, 3, 3}, st.Output[0])
}

func TestLoopBoundaries(t *testing.T) {
	t.Parallel()
	words, swizzle := loopProgram()
	s := mustCompile(t, words, swizzle)

	var setup ShaderSetup
	setup.F[0] = Vec4{1, 1, 1, 1}

	setup.I[0] = [4]uint8{0x00, 0, 0, 0}
	var st UnitState
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 1, 1, 1}, st.Output[0])

	setup.I[0] = [4]uint8{0xff, 0, 0, 0}
	st = UnitState{}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{256, 256, 256, 256}, st.Output[0])
}

func TestLoopIndexedUniform(t *testing.T) {
	t.Parallel()
	// Each iteration reads the next float uniform through the loop offset.
	words := []uint32{
		opFlow(spec.LOOP, 1, 0, 0),
		opCommon(spec.ADD, 0, dstR(0), srcC(0), srcR(0), 3),
		opCommon(spec.MOV, 0, dstO(0), srcR(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	setup.F[0] = Vec4{1, 0, 0, 0}
	setup.F[1] = Vec4{2, 0, 0, 0}
	setup.F[2] = Vec4{4, 0, 0, 0}
	setup.I[0] = [4]uint8{2, 0, 1, 0} // three iterations, start 0, step 1
	var st UnitState
	s.Run(&setup, &st, 0)
	require.Equal(t, float32(7), st.Output[0][0])
}

func TestMOVAIndexed(t *testing.T) {
	t.Parallel()
	xOnly := desc(0x8, picaisa.IdentitySelector, picaisa.IdentitySelector, picaisa.IdentitySelector, false, false, false)
	words := []uint32{
		opCommon(spec.MOVA, 1, 0, srcV(1), 0, 0),
		opCommon(spec.MOV, 0, dstO(0), srcC(2), 0, 1),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull(), xOnly})

	var setup ShaderSetup
	setup.F[1] = Vec4{10, 0, 0, 0}
	setup.F[2] = Vec4{20, 0, 0, 0}
	setup.F[3] = Vec4{30, 0, 0, 0}

	var st UnitState
	st.Input[1] = Vec4{1, 0, 0, 0}
	s.Run(&setup, &st, 0)
	require.Equal(t, float32(30), st.Output[0][0], "a0=1 selects c3")

	st.Input[1] = Vec4{-1, 0, 0, 0}
	s.Run(&setup, &st, 0)
	require.Equal(t, float32(10), st.Output[0][0], "a0=-1 selects c1")
}

func TestMOVAUntouchedWhenDisabled(t *testing.T) {
	t.Parallel()
	// A MOVA writing neither X nor Y leaves the address registers at zero.
	zw := desc(0x3, picaisa.IdentitySelector, picaisa.IdentitySelector, picaisa.IdentitySelector, false, false, false)
	words := []uint32{
		opCommon(spec.MOVA, 1, 0, srcV(1), 0, 0),
		opCommon(spec.MOV, 0, dstO(0), srcC(2), 0, 1),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull(), zw})

	var setup ShaderSetup
	setup.F[2] = Vec4{20, 0, 0, 0}
	setup.F[3] = Vec4{30, 0, 0, 0}
	var st UnitState
	st.Input[1] = Vec4{1, 1, 0, 0}
	s.Run(&setup, &st, 0)
	require.Equal(t, float32(20), st.Output[0][0])
}

func TestCallReturn(t *testing.T) {
	t.Parallel()
	words := []uint32{
		opFlow(spec.CALL, 3, 2, 0),
		opCommon(spec.MOV, 0, dstO(0), srcV(1), 0, 0),
		opTrivial(spec.END),
		opCommon(spec.MOV, 0, dstO(1), srcV(0), 0, 0),
		opCommon(spec.MOV, 0, dstO(2), srcV(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{7, 7, 7, 7}
	st.Input[1] = Vec4{8, 8, 8, 8}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{8, 8, 8, 8}, st.Output[0])
	require.Equal(t, Vec4{7, 7, 7, 7}, st.Output[1])
	require.Equal(t, Vec4{7, 7, 7, 7}, st.Output[2])
}

func TestCallU(t *testing.T) {
	t.Parallel()
	words := []uint32{
		opFlow(spec.CALLU, 2, 1, 0),
		opTrivial(spec.END),
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{3, 3, 3, 3}
	st.Output[0] = Vec4{1, 1, 1, 1}

	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 1, 1, 1}, st.Output[0], "call skipped when b0 is false")

	setup.B[0] = true
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{3, 3, 3, 3}, st.Output[0])
}

func TestCmpJmpc(t *testing.T) {
	t.Parallel()
	words := []uint32{
		opCMP(0, srcV(0), srcV(1), picaisa.CmpLt, picaisa.CmpLt),
		opFlow(spec.JMPC, 3, 0, flowCond(picaisa.CondJustX, 1, 0)),
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[1] = Vec4{5, 5, 5, 5}
	st.Output[0] = Vec4{9, 9, 9, 9}

	st.Input[0] = Vec4{1, 0, 0, 0} // 1 < 5: jump taken, mov skipped
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{9, 9, 9, 9}, st.Output[0])

	st.Input[0] = Vec4{6, 0, 0, 0} // 6 < 5 is false: mov runs
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{6, 0, 0, 0}, st.Output[0])
}

func TestCmpGtSwapsOperands(t *testing.T) {
	t.Parallel()
	words := []uint32{
		opCMP(0, srcV(0), srcV(1), picaisa.CmpGt, picaisa.CmpGe),
		opFlow(spec.JMPC, 3, 0, flowCond(picaisa.CondAnd, 1, 1)),
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{6, 5, 0, 0}
	st.Input[1] = Vec4{5, 5, 0, 0}
	st.Output[0] = Vec4{9, 9, 9, 9}
	// x: 6 > 5 and y: 5 >= 5 both hold: jump taken.
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{9, 9, 9, 9}, st.Output[0])
}

func TestCallC(t *testing.T) {
	t.Parallel()
	words := []uint32{
		opCMP(0, srcV(0), srcV(1), picaisa.CmpEq, picaisa.CmpEq),
		opFlow(spec.CALLC, 3, 1, flowCond(picaisa.CondJustX, 1, 0)),
		opTrivial(spec.END),
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{4, 0, 0, 0}
	st.Input[1] = Vec4{4, 0, 0, 0}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{4, 0, 0, 0}, st.Output[0])

	st.Input[1] = Vec4{5, 0, 0, 0}
	st.Output[0] = Vec4{}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{}, st.Output[0])
}

func TestJMPUInverted(t *testing.T) {
	t.Parallel()
	// Odd num_instructions flips JMPU: it jumps when the uniform is false.
	words := []uint32{
		opFlow(spec.JMPU, 2, 1, 0),
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}
	s := mustCompile(t, words, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{5, 5, 5, 5}
	st.Output[0] = Vec4{1, 1, 1, 1}

	s.Run(&setup, &st, 0) // b0 false: jump taken
	require.Equal(t, Vec4{1, 1, 1, 1}, st.Output[0])

	setup.B[0] = true
	s.Run(&setup, &st, 0) // b0 true: fall through to the mov
	require.Equal(t, Vec4{5, 5, 5, 5}, st.Output[0])
}

func TestTwoSourceOps(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		Name string
		Op   spec.Op
		A, B Vec4
		Want Vec4
	}{
		{"SGE", spec.SGE, Vec4{1, 2, 3, 4}, Vec4{2, 2, 2, 2}, Vec4{0, 1, 1, 1}},
		{"SLT", spec.SLT, Vec4{1, 2, 3, 4}, Vec4{2, 2, 2, 2}, Vec4{1, 0, 0, 0}},
		{"MAX", spec.MAX, Vec4{1, 5, nan32, 4}, Vec4{2, 2, 2, 8}, Vec4{2, 5, 2, 8}},
		{"MIN", spec.MIN, Vec4{1, 5, nan32, 4}, Vec4{2, 2, 2, 8}, Vec4{1, 2, 2, 4}},
		{"ADD", spec.ADD, Vec4{1, 2, 3, 4}, Vec4{10, 20, 30, 40}, Vec4{11, 22, 33, 44}},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			s := mustCompile(t, []uint32{
				opCommon(tc.Op, 0, dstO(0), srcV(0), srcV(1), 0),
				opTrivial(spec.END),
			}, []uint32{descFull()})
			var setup ShaderSetup
			var st UnitState
			st.Input[0] = tc.A
			st.Input[1] = tc.B
			s.Run(&setup, &st, 0)
			require.Equal(t, tc.Want, st.Output[0])
		})
	}
}

func TestSGEI(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommonInv(spec.SGEI, 0, dstO(0), srcV(0), srcC(3), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	setup.F[3] = Vec4{2, 2, 2, 2}
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{0, 1, 1, 1}, st.Output[0])
}

func TestFLR(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.FLR, 0, dstO(0), srcV(0), 0, 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1.7, 0.3, 3, 2.5}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{1, 0, 3, 2}, st.Output[0])
}

func TestEX2LG2(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.EX2, 0, dstO(0), srcV(0), 0, 0),
		opCommon(spec.LG2, 0, dstO(1), srcV(1), 0, 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{3, 0, 0, 0}
	st.Input[1] = Vec4{8, 0, 0, 0}
	s.Run(&setup, &st, 0)
	require.InDelta(t, 8, st.Output[0][0], 1e-5)
	require.InDelta(t, 8, st.Output[0][3], 1e-5, "result is broadcast")
	require.InDelta(t, 3, st.Output[1][0], 1e-5)
}

func TestRCPRSQ(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.RCP, 0, dstO(0), srcV(0), 0, 0),
		opCommon(spec.RSQ, 0, dstO(1), srcV(1), 0, 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{2, 0, 0, 0}
	st.Input[1] = Vec4{4, 0, 0, 0}
	s.Run(&setup, &st, 0)
	// Hardware-style approximations: a few thousandths of tolerance.
	require.InDelta(t, 0.5, st.Output[0][0], 1e-3)
	require.InDelta(t, 0.5, st.Output[0][2], 1e-3, "result is broadcast")
	require.InDelta(t, 0.5, st.Output[1][0], 1e-3)
}

func TestMAD(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opMAD(0, dstO(0), srcV(0), srcV(1), srcV(2)),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	st.Input[1] = Vec4{2, 2, 2, 2}
	st.Input[2] = Vec4{10, 10, 10, 10}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{12, 14, 16, 18}, st.Output[0])
}

func TestMADI(t *testing.T) {
	t.Parallel()
	// madi's wide field is src3: use a float uniform for the addend.
	s := mustCompile(t, []uint32{
		opMADI(0, dstO(0), srcV(0), srcV(1), srcC(9)),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	setup.F[9] = Vec4{100, 100, 100, 100}
	var st UnitState
	st.Input[0] = Vec4{1, 2, 3, 4}
	st.Input[1] = Vec4{3, 3, 3, 3}
	s.Run(&setup, &st, 0)
	require.Equal(t, Vec4{103, 106, 109, 112}, st.Output[0])
}

func TestAddThenMovEquivalence(t *testing.T) {
	t.Parallel()
	direct := mustCompile(t, []uint32{
		opCommon(spec.ADD, 0, dstO(0), srcV(0), srcV(1), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})
	staged := mustCompile(t, []uint32{
		opCommon(spec.ADD, 0, dstR(0), srcV(0), srcV(1), 0),
		opCommon(spec.MOV, 0, dstO(0), srcR(0), 0, 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	a, b := UnitState{}, UnitState{}
	a.Input[0] = Vec4{1.5, -2, 33, 0}
	a.Input[1] = Vec4{4, 8, -16, 0.25}
	b.Input = a.Input
	direct.Run(&setup, &a, 0)
	staged.Run(&setup, &b, 0)
	require.Equal(t, a.Output[0], b.Output[0])
}

func TestEntryOffset(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.MOV, 0, dstO(0), srcV(0), 0, 0),
		opCommon(spec.MOV, 0, dstO(1), srcV(1), 0, 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	var st UnitState
	st.Input[0] = Vec4{1, 1, 1, 1}
	st.Input[1] = Vec4{2, 2, 2, 2}
	s.Run(&setup, &st, 1)
	require.Equal(t, Vec4{}, st.Output[0], "entry 1 skips the first mov")
	require.Equal(t, Vec4{2, 2, 2, 2}, st.Output[1])
}

func TestParallelInvocations(t *testing.T) {
	t.Parallel()
	s := mustCompile(t, []uint32{
		opCommon(spec.ADD, 0, dstO(0), srcC(0), srcV(0), 0),
		opTrivial(spec.END),
	}, []uint32{descFull()})

	var setup ShaderSetup
	setup.F[0] = Vec4{100, 100, 100, 100}

	var eg errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		eg.Go(func() error {
			var st UnitState
			st.Input[0] = Vec4{float32(i), 0, 0, 0}
			for j := 0; j < 1000; j++ {
				s.Run(&setup, &st, 0)
			}
			want := Vec4{100 + float32(i), 100, 100, 100}
			if st.Output[0] != want {
				return fmt.Errorf("unit %d: got %v, want %v", i, st.Output[0], want)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
}
