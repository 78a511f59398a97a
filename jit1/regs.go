package jit1

import "picaweb.org/picajit/internal/x64"

// Fixed register roles of the generated code. rax-rdx and xmm0-xmm4
// (xScratch, xScratch2, xSrc1..xSrc3) are scratch within a single lowering;
// the general purpose roles and xOne/xNegBit keep their values across
// instructions.
const (
	// regSetup points at the ShaderSetup block.
	regSetup = x64.R9
	// regState points at the UnitState block.
	regState = x64.R15
	// regAddr0 and regAddr1 are the MOVA address offsets, pre-scaled by 16.
	regAddr0 = x64.R10
	regAddr1 = x64.R11
	// regLoopOff accumulates the LOOP offset, pre-scaled by 16 (32-bit use).
	regLoopOff = x64.R12
	// regLoopCount is the remaining LOOP iteration count (32-bit use).
	regLoopCount = x64.RSI
	// regLoopInc is the per-iteration LOOP increment, pre-scaled by 16.
	regLoopInc = x64.RDI
	// regCond0 and regCond1 cache the last CMP's X and Y results.
	regCond0 = x64.R13
	regCond1 = x64.R14

	// xScratch and xScratch2 are SIMD scratch.
	xScratch  = x64.XMM0
	xScratch2 = x64.XMM4
	// xSrc1..xSrc3 hold the swizzled source operands.
	xSrc1 = x64.XMM1
	xSrc2 = x64.XMM2
	xSrc3 = x64.XMM3
	// xOne is [1,1,1,1]; xNegBit is [-0,-0,-0,-0], loaded at entry.
	xOne    = x64.XMM14
	xNegBit = x64.XMM15
)

// persistentRegs are the registers emitted code relies on across foreign
// calls. The loop registers are included so a LOOP body may contain EX2/LG2.
var persistentRegs = x64.Regs(
	[]x64.Reg{regSetup, regState, regAddr0, regAddr1,
		regLoopOff, regLoopCount, regLoopInc, regCond0, regCond1},
	[]x64.Xmm{xOne, xNegBit},
)

// persistentCallerSaved is what must be spilled around a foreign call.
func persistentCallerSaved() x64.RegSet {
	return persistentRegs.And(x64.CallerSaved)
}
