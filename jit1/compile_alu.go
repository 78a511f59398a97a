package jit1

import (
	"fmt"

	"picaweb.org/picajit/internal/x64"
	"picaweb.org/picajit/picaisa"
)

// shuf builds a SHUFPS immediate selecting lanes (w,z,y,x) high to low.
func shuf(w, z, y, x uint8) uint8 {
	return w<<6 | z<<4 | y<<2 | x
}

func (c *compiler) compileADD(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	c.asm.Addps(xSrc1, xSrc2)
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileDP3(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	a := c.asm
	c.sanitizedMul(xSrc1, xSrc2, xScratch)

	a.MovapsXX(xSrc2, xSrc1)
	a.Shufps(xSrc2, xSrc2, shuf(1, 1, 1, 1))
	a.MovapsXX(xSrc3, xSrc1)
	a.Shufps(xSrc3, xSrc3, shuf(2, 2, 2, 2))
	a.Shufps(xSrc1, xSrc1, shuf(0, 0, 0, 0))
	a.Addps(xSrc1, xSrc2)
	a.Addps(xSrc1, xSrc3)

	return c.destEnable(w, xSrc1)
}

// dot4 sums all four lanes of xSrc1 into every lane.
func (c *compiler) dot4() {
	a := c.asm
	a.MovapsXX(xSrc2, xSrc1)
	a.Shufps(xSrc1, xSrc1, shuf(2, 3, 0, 1)) // XYZW -> YXWZ
	a.Addps(xSrc1, xSrc2)

	a.MovapsXX(xSrc2, xSrc1)
	a.Shufps(xSrc1, xSrc1, shuf(0, 1, 2, 3)) // XYZW -> WZYX
	a.Addps(xSrc1, xSrc2)
}

func (c *compiler) compileDP4(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	c.sanitizedMul(xSrc1, xSrc2, xScratch)
	c.dot4()
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileDPH(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	a := c.asm
	// Force src1's W component to 1.0.
	if c.sse41 {
		a.Blendps(xSrc1, xOne, 0b1000)
	} else {
		a.MovapsXX(xScratch, xSrc1)
		a.Unpckhps(xScratch, xOne)  // XYZW, 1111 -> Z1W1
		a.Unpcklpd(xSrc1, xScratch) // XYZW, Z1W1 -> XYZ1
	}
	c.sanitizedMul(xSrc1, xSrc2, xScratch)
	c.dot4()
	return c.destEnable(w, xSrc1)
}

// foreignScalar calls a scalar float helper with xSrc1.x as the argument and
// broadcasts the result back into xSrc1.
func (c *compiler) foreignScalar(addr uintptr) {
	a := c.asm
	a.Movss(xScratch, xSrc1)

	saved := persistentCallerSaved()
	a.PushRegsAdjustStack(saved, 0)
	a.CallFar(addr, x64.RAX)
	a.PopRegsAdjustStack(saved, 0)

	a.Shufps(xScratch, xScratch, shuf(0, 0, 0, 0))
	a.MovapsXX(xSrc1, xScratch)
}

func (c *compiler) compileEX2(w picaisa.Instruction) error {
	if err := c.swizzleSrc(w, 1, w.Common().Src1(false), xSrc1); err != nil {
		return err
	}
	c.foreignScalar(c.h.exp2f)
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileLG2(w picaisa.Instruction) error {
	if err := c.swizzleSrc(w, 1, w.Common().Src1(false), xSrc1); err != nil {
		return err
	}
	c.foreignScalar(c.h.log2f)
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileMUL(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	c.sanitizedMul(xSrc1, xSrc2, xScratch)
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileSGE(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	c.asm.Cmpps(xSrc2, xSrc1, x64.PredLE)
	c.asm.Andps(xSrc2, xOne)
	return c.destEnable(w, xSrc2)
}

func (c *compiler) compileSLT(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	c.asm.Cmpps(xSrc1, xSrc2, x64.PredLT)
	c.asm.Andps(xSrc1, xOne)
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileFLR(w picaisa.Instruction) error {
	if err := c.swizzleSrc(w, 1, w.Common().Src1(false), xSrc1); err != nil {
		return err
	}
	if c.sse41 {
		c.asm.Roundps(xSrc1, xSrc1, x64.RoundFloor)
	} else {
		c.asm.Cvttps2dq(xSrc1, xSrc1)
		c.asm.Cvtdq2ps(xSrc1, xSrc1)
	}
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileMAX(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	// maxps matches the PICA NaN convention: NaN selects the second operand.
	c.asm.Maxps(xSrc1, xSrc2)
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileMIN(w picaisa.Instruction) error {
	s1, s2 := c.srcs2(w)
	if err := c.swizzleSrc(w, 1, s1, xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, s2, xSrc2); err != nil {
		return err
	}
	c.asm.Minps(xSrc1, xSrc2)
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileRCP(w picaisa.Instruction) error {
	if err := c.swizzleSrc(w, 1, w.Common().Src1(false), xSrc1); err != nil {
		return err
	}
	// rcpss is an approximation; the hardware's reciprocal is likewise rough.
	c.asm.Rcpss(xSrc1, xSrc1)
	c.asm.Shufps(xSrc1, xSrc1, shuf(0, 0, 0, 0))
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileRSQ(w picaisa.Instruction) error {
	if err := c.swizzleSrc(w, 1, w.Common().Src1(false), xSrc1); err != nil {
		return err
	}
	c.asm.Rsqrtss(xSrc1, xSrc1)
	c.asm.Shufps(xSrc1, xSrc1, shuf(0, 0, 0, 0))
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileMOV(w picaisa.Instruction) error {
	if err := c.swizzleSrc(w, 1, w.Common().Src1(false), xSrc1); err != nil {
		return err
	}
	return c.destEnable(w, xSrc1)
}

func (c *compiler) compileMOVA(w picaisa.Instruction) error {
	cm := w.Common()
	swiz, err := c.swizzle(cm.OperandDescID())
	if err != nil {
		return err
	}
	en0 := swiz.DestComponentEnabled(0)
	en1 := swiz.DestComponentEnabled(1)
	if !en0 && !en1 {
		return nil
	}
	if err := c.swizzleSrc(w, 1, cm.Src1(false), xSrc1); err != nil {
		return err
	}

	a := c.asm
	// Truncate to integers; only the X and Y lanes matter.
	a.Cvttps2dq(xSrc1, xSrc1)
	a.MovqRX(x64.RAX, xSrc1)

	switch {
	case en0 && en1:
		a.MovsxdRR(regAddr0, x64.RAX)
		a.ShrRI(x64.RAX, 32)
		a.MovsxdRR(regAddr1, x64.RAX)
		// Scale by 16 for use as vector byte offsets.
		a.ShlRI(regAddr0, 4)
		a.ShlRI(regAddr1, 4)
	case en0:
		a.MovsxdRR(regAddr0, x64.RAX)
		a.ShlRI(regAddr0, 4)
	default:
		a.ShrRI(x64.RAX, 32)
		a.MovsxdRR(regAddr1, x64.RAX)
		a.ShlRI(regAddr1, 4)
	}
	return nil
}

func (c *compiler) compileCMP(w picaisa.Instruction) error {
	cm := w.Common()
	if err := c.swizzleSrc(w, 1, cm.Src1(false), xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, cm.Src2(false), xSrc2); err != nil {
		return err
	}
	opX, opY := cm.CompareOpX(), cm.CompareOpY()
	predX, invX, err := cmpPred(opX)
	if err != nil {
		return err
	}
	predY, invY, err := cmpPred(opY)
	if err != nil {
		return err
	}

	a := c.asm
	lhsX, rhsX := xSrc1, xSrc2
	if invX {
		lhsX, rhsX = rhsX, lhsX
	}
	if opX == opY {
		// Compare the X and Y components together.
		a.Cmpps(lhsX, rhsX, predX)
		a.MovqRX(regCond0, lhsX)
		a.MovRR(regCond1, regCond0)
	} else {
		lhsY, rhsY := xSrc1, xSrc2
		if invY {
			lhsY, rhsY = rhsY, lhsY
		}
		a.MovapsXX(xScratch, lhsX)
		a.Cmpss(xScratch, rhsX, predX)
		a.Cmpps(lhsY, rhsY, predY)
		a.MovqRX(regCond0, xScratch)
		a.MovqRX(regCond1, lhsY)
	}
	a.ShrRI32(regCond0, 31)
	a.ShrRI(regCond1, 63)
	return nil
}

// cmpPred maps a PICA compare operator onto an SSE predicate. SSE has no
// ordered GT/GE, so those swap the operands and use LT/LE; NLT and NLE
// would mishandle NaN.
func cmpPred(op picaisa.CompareOp) (pred uint8, swap bool, _ error) {
	switch op {
	case picaisa.CmpEq:
		return x64.PredEQ, false, nil
	case picaisa.CmpNeq:
		return x64.PredNEQ, false, nil
	case picaisa.CmpLt:
		return x64.PredLT, false, nil
	case picaisa.CmpLe:
		return x64.PredLE, false, nil
	case picaisa.CmpGt:
		return x64.PredLT, true, nil
	case picaisa.CmpGe:
		return x64.PredLE, true, nil
	default:
		return 0, false, fmt.Errorf("jit1: reserved compare op %d", op)
	}
}

func (c *compiler) compileMAD(w picaisa.Instruction) error {
	inv := w.Op().Info().SrcInversed
	m := w.MAD()
	if err := c.swizzleSrc(w, 1, m.Src1(), xSrc1); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 2, m.Src2(inv), xSrc2); err != nil {
		return err
	}
	if err := c.swizzleSrc(w, 3, m.Src3(inv), xSrc3); err != nil {
		return err
	}
	c.sanitizedMul(xSrc1, xSrc2, xScratch)
	c.asm.Addps(xSrc1, xSrc3)
	return c.destEnable(w, xSrc1)
}
