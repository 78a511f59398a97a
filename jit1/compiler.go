package jit1

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unsafe"

	"go.brendoncarroll.net/stdctx/logctx"

	"picaweb.org/picajit/internal/x64"
	"picaweb.org/picajit/picaisa"
	"picaweb.org/picajit/spec"
)

var (
	// ErrBackwardsIf is returned for an IF whose target precedes it.
	ErrBackwardsIf = errors.New("jit1: backwards if-statements not supported")
	// ErrBackwardsLoop is returned for a LOOP whose target precedes it.
	ErrBackwardsLoop = errors.New("jit1: backwards loops not supported")
	// ErrNestedLoop is returned when a LOOP body contains another LOOP.
	ErrNestedLoop = errors.New("jit1: nested loops not supported")
	// ErrProgramTooLarge is returned for programs over the ISA limit.
	ErrProgramTooLarge = errors.New("jit1: program exceeds maximum size")
	// ErrShaderTooLarge is returned when emitted code exceeds the buffer cap.
	ErrShaderTooLarge = errors.New("jit1: compiled shader exceeds size cap")
)

// helpers holds the addresses of the foreign functions emitted code calls.
type helpers struct {
	exp2f  uintptr
	log2f  uintptr
	logMsg uintptr
}

type compiler struct {
	asm      *x64.Assembler
	prog     []picaisa.Instruction
	swizzles []uint32
	h        helpers
	sse41    bool

	labels  []x64.Label
	rets    []uint32
	pc      uint32
	looping bool
}

// compile translates the program into machine code and returns the code
// bytes together with the buffer offset of every instruction's label.
func compile(ctx context.Context, words, swizzle []uint32, sse41 bool, h helpers) ([]byte, []int, error) {
	if len(words) > spec.MaxProgramSize {
		return nil, nil, ErrProgramTooLarge
	}
	prog := make([]picaisa.Instruction, len(words))
	for i, w := range words {
		prog[i] = picaisa.Instruction(w)
	}
	c := &compiler{
		asm:      x64.New(),
		prog:     prog,
		swizzles: swizzle,
		h:        h,
		sse41:    sse41,
		rets:     returnOffsets(prog),
	}
	c.labels = make([]x64.Label, len(prog))
	for i := range c.labels {
		c.labels[i] = c.asm.NewLabel()
	}

	c.prologue()
	if err := c.compileBlock(ctx, uint32(len(prog))); err != nil {
		return nil, nil, err
	}
	if err := c.asm.Finalize(); err != nil {
		return nil, nil, err
	}
	if c.asm.Len() > spec.MaxShaderBytes {
		return nil, nil, ErrShaderTooLarge
	}
	entries := make([]int, len(prog))
	for i, l := range c.labels {
		entries[i] = c.asm.LabelOffset(l)
	}
	return c.asm.Bytes(), entries, nil
}

// prologue saves the callee-saved registers, moves the arguments into their
// role registers, zeroes the address and loop registers, loads the two SIMD
// constants, and jumps to the entry address argument.
func (c *compiler) prologue() {
	a := c.asm
	a.PushRegsAdjustStack(x64.CalleeSaved, 8)

	a.MovRR(regSetup, x64.Param1)
	a.MovRR(regState, x64.Param2)

	a.XorRR32(regAddr0, regAddr0)
	a.XorRR32(regAddr1, regAddr1)
	a.XorRR32(regLoopOff, regLoopOff)

	a.MovRI64(x64.RAX, uint64(uintptr(unsafe.Pointer(&vecOne))))
	a.MovupsXM(xOne, x64.M(x64.RAX, 0))
	a.MovRI64(x64.RAX, uint64(uintptr(unsafe.Pointer(&vecNegBit))))
	a.MovupsXM(xNegBit, x64.M(x64.RAX, 0))

	a.JmpR(x64.Param3)
}

func (c *compiler) compileBlock(ctx context.Context, end uint32) error {
	if end > uint32(len(c.prog)) {
		return fmt.Errorf("jit1: branch target %d beyond program end %d", end, len(c.prog))
	}
	for c.pc < end {
		if err := c.compileNext(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileNext(ctx context.Context) error {
	if _, found := slices.BinarySearch(c.rets, c.pc); found {
		c.compileReturn()
	}
	c.asm.Bind(c.labels[c.pc])

	w := c.prog[c.pc]
	c.pc++

	switch op := w.Op().Effective(); op {
	case spec.ADD:
		return c.compileADD(w)
	case spec.DP3:
		return c.compileDP3(w)
	case spec.DP4:
		return c.compileDP4(w)
	case spec.DPH, spec.DPHI:
		return c.compileDPH(w)
	case spec.EX2:
		return c.compileEX2(w)
	case spec.LG2:
		return c.compileLG2(w)
	case spec.MUL:
		return c.compileMUL(w)
	case spec.SGE, spec.SGEI:
		return c.compileSGE(w)
	case spec.SLT, spec.SLTI:
		return c.compileSLT(w)
	case spec.FLR:
		return c.compileFLR(w)
	case spec.MAX:
		return c.compileMAX(w)
	case spec.MIN:
		return c.compileMIN(w)
	case spec.RCP:
		return c.compileRCP(w)
	case spec.RSQ:
		return c.compileRSQ(w)
	case spec.MOVA:
		return c.compileMOVA(w)
	case spec.MOV:
		return c.compileMOV(w)
	case spec.NOP:
		return nil
	case spec.END:
		c.compileEND()
		return nil
	case spec.CALL:
		return c.compileCALL(w)
	case spec.CALLC:
		return c.compileCALLC(w)
	case spec.CALLU:
		return c.compileCALLU(w)
	case spec.IFU, spec.IFC:
		return c.compileIF(ctx, w)
	case spec.LOOP:
		return c.compileLOOP(ctx, w)
	case spec.JMPC, spec.JMPU:
		return c.compileJMP(w)
	case spec.CMP:
		return c.compileCMP(w)
	case spec.MAD, spec.MADI:
		return c.compileMAD(w)
	default:
		logctx.Warnf(ctx, "unhandled instruction: 0x%02x (0x%08x)", uint8(op), uint32(w))
		return nil
	}
}

// swizzleSrc loads source operand srcNum into dest: base load, optional
// indexed addressing on the designated offset operand, swizzle shuffle, and
// negation.
func (c *compiler) swizzleSrc(w picaisa.Instruction, srcNum int, src picaisa.SourceRegister, dest x64.Xmm) error {
	var base x64.Reg
	var off int32
	if src.Type() == picaisa.FloatUniform {
		base = regSetup
		off = floatUniformOffset(src.Index())
	} else {
		base = regState
		off = inputOffset(src)
	}

	info := w.Op().Info()
	var descID uint32
	var offsetSrc int
	var addrIdx uint32
	if info.Family == spec.FamilyMAD {
		m := w.MAD()
		descID = m.OperandDescID()
		offsetSrc = 2
		if info.SrcInversed {
			offsetSrc = 3
		}
		addrIdx = m.AddressRegisterIndex()
	} else {
		cm := w.Common()
		descID = cm.OperandDescID()
		offsetSrc = 1
		if info.SrcInversed {
			offsetSrc = 2
		}
		addrIdx = cm.AddressRegisterIndex()
	}

	if srcNum == offsetSrc && addrIdx != 0 {
		var idx x64.Reg
		switch addrIdx {
		case 1:
			idx = regAddr0
		case 2:
			idx = regAddr1
		case 3:
			idx = regLoopOff
		}
		c.asm.MovupsXM(dest, x64.MIdx(base, idx, off))
	} else {
		c.asm.MovupsXM(dest, x64.M(base, off))
	}

	swiz, err := c.swizzle(descID)
	if err != nil {
		return err
	}
	if sel := swiz.Selector(srcNum); sel != picaisa.IdentitySelector {
		c.asm.Shufps(dest, dest, picaisa.ReverseSelector(sel))
	}
	if swiz.Negate(srcNum) {
		c.asm.Xorps(dest, xNegBit)
	}
	return nil
}

func (c *compiler) swizzle(descID uint32) (picaisa.SwizzlePattern, error) {
	if int(descID) >= len(c.swizzles) {
		return 0, fmt.Errorf("jit1: operand descriptor %d out of range", descID)
	}
	return picaisa.SwizzlePattern(c.swizzles[descID]), nil
}

// destEnable writes src to the destination register under the operand
// descriptor's write mask.
func (c *compiler) destEnable(w picaisa.Instruction, src x64.Xmm) error {
	var descID uint32
	var dest picaisa.DestRegister
	if w.Op().Info().Family == spec.FamilyMAD {
		m := w.MAD()
		descID = m.OperandDescID()
		dest = m.Dest()
	} else {
		cm := w.Common()
		descID = cm.OperandDescID()
		dest = cm.Dest()
	}
	swiz, err := c.swizzle(descID)
	if err != nil {
		return err
	}

	a := c.asm
	off := outputOffset(dest)
	if swiz.DestMask() == picaisa.FullDestMask {
		a.MovupsMX(x64.M(regState, off), src)
		return nil
	}

	a.MovupsXM(xScratch, x64.M(regState, off))
	if c.sse41 {
		m := swiz.DestMask()
		mask := (m&1)<<3 | (m&8)>>3 | (m&2)<<1 | (m&4)>>1
		a.Blendps(xScratch, src, uint8(mask))
	} else {
		a.MovapsXX(xScratch2, src)
		a.Unpckhps(xScratch2, xScratch)
		a.Unpcklps(xScratch, src)

		var sel uint8
		pick := func(c int, t, f uint8) uint8 {
			if swiz.DestComponentEnabled(c) {
				return t
			}
			return f
		}
		sel = pick(0, 1, 0) | pick(1, 3, 2)<<2 | pick(2, 0, 1)<<4 | pick(3, 2, 3)<<6
		a.Shufps(xScratch, xScratch2, sel)
	}
	a.MovupsMX(x64.M(regState, off), xScratch)
	return nil
}

// sanitizedMul multiplies s1 by s2 with the PICA NaN convention: lanes whose
// ordered inputs produce NaN (zero times infinity) are flushed to zero, and
// lanes that were already NaN stay NaN.
func (c *compiler) sanitizedMul(s1, s2, scratch x64.Xmm) {
	a := c.asm
	a.MovapsXX(scratch, s1)
	a.Cmpps(scratch, s2, x64.PredORD)

	a.Mulps(s1, s2)

	a.MovapsXX(s2, s1)
	a.Cmpps(s2, s2, x64.PredUNORD)

	a.Xorps(scratch, s2)
	a.Andps(s1, scratch)
}

// srcs2 returns the two sources of a common-family instruction, honoring the
// operand-swapped variants.
func (c *compiler) srcs2(w picaisa.Instruction) (picaisa.SourceRegister, picaisa.SourceRegister) {
	inv := w.Op().Info().SrcInversed
	cm := w.Common()
	return cm.Src1(inv), cm.Src2(inv)
}
