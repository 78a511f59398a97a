// package picaisa decodes PICA200 vertex shader instruction words.
// The bitfield layouts match the hardware encoding; see the spec package for
// the opcode numbering.
package picaisa

import (
	"fmt"

	"picaweb.org/picajit/spec"
)

// Instruction is one 32-bit shader instruction word.
type Instruction uint32

func (w Instruction) Op() spec.Op {
	return spec.Op(w >> 26)
}

func (w Instruction) Common() Common { return Common(w) }
func (w Instruction) MAD() MAD       { return MAD(w) }
func (w Instruction) Flow() Flow     { return Flow(w) }

func bits(w, lo, n uint32) uint32 {
	return (w >> lo) & (1<<n - 1)
}

// Common is the arithmetic/comparison instruction layout.
type Common uint32

func (c Common) OperandDescID() uint32 { return bits(uint32(c), 0, 7) }

// Src1 and Src2 return the source register fields; the inverted variants
// (DPHI, SGEI, SLTI) widen src2 to 7 bits and narrow src1 to 5.
func (c Common) Src1(inverted bool) SourceRegister {
	if inverted {
		return SourceRegister(bits(uint32(c), 14, 5))
	}
	return SourceRegister(bits(uint32(c), 12, 7))
}

func (c Common) Src2(inverted bool) SourceRegister {
	if inverted {
		return SourceRegister(bits(uint32(c), 7, 7))
	}
	return SourceRegister(bits(uint32(c), 7, 5))
}

func (c Common) AddressRegisterIndex() uint32 { return bits(uint32(c), 19, 2) }
func (c Common) Dest() DestRegister           { return DestRegister(bits(uint32(c), 21, 5)) }

// CompareOpX and CompareOpY are only meaningful for CMP. The x op's top bit
// overlaps the opcode field, which is why CMP occupies two opcode slots.
func (c Common) CompareOpX() CompareOp { return CompareOp(bits(uint32(c), 24, 3)) }
func (c Common) CompareOpY() CompareOp { return CompareOp(bits(uint32(c), 21, 3)) }

// CompareOp is a CMP comparison operator.
type CompareOp uint8

const (
	CmpEq CompareOp = iota
	CmpNeq
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (op CompareOp) String() string {
	switch op {
	case CmpEq:
		return "=="
	case CmpNeq:
		return "!="
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	default:
		return "??"
	}
}

// MAD is the three-source multiply-add layout. Src1 is always 5 bits wide,
// so it can only name an input or temporary register.
type MAD uint32

func (m MAD) OperandDescID() uint32 { return bits(uint32(m), 0, 5) }

func (m MAD) Src1() SourceRegister { return SourceRegister(bits(uint32(m), 17, 5)) }

func (m MAD) Src2(inverted bool) SourceRegister {
	if inverted {
		return SourceRegister(bits(uint32(m), 12, 5))
	}
	return SourceRegister(bits(uint32(m), 10, 7))
}

func (m MAD) Src3(inverted bool) SourceRegister {
	if inverted {
		return SourceRegister(bits(uint32(m), 5, 7))
	}
	return SourceRegister(bits(uint32(m), 5, 5))
}

func (m MAD) AddressRegisterIndex() uint32 { return bits(uint32(m), 22, 2) }
func (m MAD) Dest() DestRegister           { return DestRegister(bits(uint32(m), 24, 5)) }

// Flow is the flow control layout.
type Flow uint32

func (f Flow) NumInstructions() uint32 { return bits(uint32(f), 0, 8) }
func (f Flow) DestOffset() uint32      { return bits(uint32(f), 10, 12) }
func (f Flow) Cond() CondOp            { return CondOp(bits(uint32(f), 22, 2)) }
func (f Flow) BoolUniformID() uint32   { return bits(uint32(f), 22, 4) }
func (f Flow) IntUniformID() uint32    { return bits(uint32(f), 22, 2) }
func (f Flow) RefY() uint32            { return bits(uint32(f), 24, 1) }
func (f Flow) RefX() uint32            { return bits(uint32(f), 25, 1) }

// CondOp combines the two cached comparison results for flow control.
type CondOp uint8

const (
	CondOr CondOp = iota
	CondAnd
	CondJustX
	CondJustY
)

func (op CondOp) String() string {
	switch op {
	case CondOr:
		return "or"
	case CondAnd:
		return "and"
	case CondJustX:
		return "x"
	case CondJustY:
		return "y"
	default:
		return "??"
	}
}

func (w Instruction) String() string {
	op := w.Op()
	info := op.Info()
	switch info.Family {
	case spec.FamilyCommon:
		c := w.Common()
		if op.Effective() == spec.CMP {
			return fmt.Sprintf("cmp %v %v %v, %v %v %v",
				c.Src1(false), c.CompareOpX(), c.Src2(false),
				c.Src1(false), c.CompareOpY(), c.Src2(false))
		}
		return fmt.Sprintf("%v %v, %v, %v", op, c.Dest(),
			c.Src1(info.SrcInversed), c.Src2(info.SrcInversed))
	case spec.FamilyMAD:
		m := w.MAD()
		return fmt.Sprintf("%v %v, %v, %v, %v", op, m.Dest(),
			m.Src1(), m.Src2(info.SrcInversed), m.Src3(info.SrcInversed))
	case spec.FamilyFlow:
		f := w.Flow()
		return fmt.Sprintf("%v dst=%d num=%d", op, f.DestOffset(), f.NumInstructions())
	case spec.FamilyTrivial:
		return op.String()
	default:
		return fmt.Sprintf("unknown(0x%02x) 0x%08x", uint8(op), uint32(w))
	}
}
