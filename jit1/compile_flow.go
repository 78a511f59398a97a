package jit1

import (
	"context"
	"fmt"

	"picaweb.org/picajit/internal/x64"
	"picaweb.org/picajit/picaisa"
	"picaweb.org/picajit/spec"
)

// evaluateCondition combines the cached CMP results with the expected
// values. The zero flag is clear afterwards iff the condition holds.
func (c *compiler) evaluateCondition(w picaisa.Instruction) {
	a := c.asm
	f := w.Flow()
	// XOR against ref^1 leaves a nonzero value exactly when the cached
	// result equals the expected one.
	switch f.Cond() {
	case picaisa.CondOr:
		a.MovRR32(x64.RAX, regCond0)
		a.MovRR32(x64.RBX, regCond1)
		a.XorRI32(x64.RAX, f.RefX()^1)
		a.XorRI32(x64.RBX, f.RefY()^1)
		a.OrRR32(x64.RAX, x64.RBX)
	case picaisa.CondAnd:
		a.MovRR32(x64.RAX, regCond0)
		a.MovRR32(x64.RBX, regCond1)
		a.XorRI32(x64.RAX, f.RefX()^1)
		a.XorRI32(x64.RBX, f.RefY()^1)
		a.AndRR32(x64.RAX, x64.RBX)
	case picaisa.CondJustX:
		a.MovRR32(x64.RAX, regCond0)
		a.XorRI32(x64.RAX, f.RefX()^1)
	case picaisa.CondJustY:
		a.MovRR32(x64.RAX, regCond1)
		a.XorRI32(x64.RAX, f.RefY()^1)
	}
}

// uniformCondition sets the zero flag iff the boolean uniform is false.
func (c *compiler) uniformCondition(w picaisa.Instruction) {
	off := boolUniformOffset(int(w.Flow().BoolUniformID()))
	c.asm.CmpMI8(x64.M(regSetup, off), 0)
}

func (c *compiler) target(off uint32) (x64.Label, error) {
	if off >= uint32(len(c.labels)) {
		return 0, fmt.Errorf("jit1: branch target %d beyond program end %d", off, len(c.prog))
	}
	return c.labels[off], nil
}

func (c *compiler) compileIF(ctx context.Context, w picaisa.Instruction) error {
	f := w.Flow()
	if f.DestOffset() < c.pc {
		return fmt.Errorf("%w (target %d at pc %d)", ErrBackwardsIf, f.DestOffset(), c.pc)
	}
	a := c.asm
	if w.Op() == spec.IFU {
		c.uniformCondition(w)
	} else {
		c.evaluateCondition(w)
	}
	lElse := a.NewLabel()
	a.Jz(lElse)

	// The true branch runs up to the else target.
	if err := c.compileBlock(ctx, f.DestOffset()); err != nil {
		return err
	}

	if f.NumInstructions() == 0 {
		a.Bind(lElse)
		return nil
	}

	lEndif := a.NewLabel()
	a.Jmp(lEndif)
	a.Bind(lElse)
	if err := c.compileBlock(ctx, f.DestOffset()+f.NumInstructions()); err != nil {
		return err
	}
	a.Bind(lEndif)
	return nil
}

func (c *compiler) compileLOOP(ctx context.Context, w picaisa.Instruction) error {
	f := w.Flow()
	if f.DestOffset() < c.pc {
		return fmt.Errorf("%w (target %d at pc %d)", ErrBackwardsLoop, f.DestOffset(), c.pc)
	}
	if c.looping {
		return ErrNestedLoop
	}
	c.looping = true

	// The integer uniform packs iteration count minus one (byte 0), start
	// offset (byte 1), and increment (byte 2). Start and increment stay
	// scaled by 16 so they address 16-byte vectors directly.
	a := c.asm
	a.MovRM32(regLoopCount, x64.M(regSetup, intUniformOffset(int(f.IntUniformID()))))
	a.MovRR32(regLoopOff, regLoopCount)
	a.ShrRI32(regLoopOff, 4)
	a.AndRI32(regLoopOff, 0xff0)
	a.MovRR32(regLoopInc, regLoopCount)
	a.ShrRI32(regLoopInc, 12)
	a.AndRI32(regLoopInc, 0xff0)
	a.MovzxR32R8(regLoopCount, regLoopCount)
	a.AddRI32(regLoopCount, 1)

	lStart := a.NewLabel()
	a.Bind(lStart)

	// The body is [pc, dest], inclusive of the target instruction.
	if err := c.compileBlock(ctx, f.DestOffset()+1); err != nil {
		return err
	}

	a.AddRR32(regLoopOff, regLoopInc)
	a.SubRI32(regLoopCount, 1)
	a.Jnz(lStart)

	c.looping = false
	return nil
}

func (c *compiler) compileCALL(w picaisa.Instruction) error {
	f := w.Flow()
	l, err := c.target(f.DestOffset())
	if err != nil {
		return err
	}
	a := c.asm
	// The return point rides on the stack; the called region compares it
	// against its own offsets and returns when they meet.
	a.PushI32(int32(f.DestOffset() + f.NumInstructions()))
	a.Call(l)
	a.AddRI(x64.RSP, 8)
	return nil
}

func (c *compiler) compileCALLC(w picaisa.Instruction) error {
	c.evaluateCondition(w)
	skip := c.asm.NewLabel()
	c.asm.Jz(skip)
	if err := c.compileCALL(w); err != nil {
		return err
	}
	c.asm.Bind(skip)
	return nil
}

func (c *compiler) compileCALLU(w picaisa.Instruction) error {
	c.uniformCondition(w)
	skip := c.asm.NewLabel()
	c.asm.Jz(skip)
	if err := c.compileCALL(w); err != nil {
		return err
	}
	c.asm.Bind(skip)
	return nil
}

// compileReturn emits the check spliced at every return offset: if the
// sentinel pushed by the call site names the current offset, return.
func (c *compiler) compileReturn() {
	a := c.asm
	a.MovRM(x64.RAX, x64.M(x64.RSP, 8))
	a.CmpRI32(x64.RAX, c.pc)

	skip := a.NewLabel()
	a.Jnz(skip)
	a.Ret()
	a.Bind(skip)
}

func (c *compiler) compileJMP(w picaisa.Instruction) error {
	if w.Op() == spec.JMPC {
		c.evaluateCondition(w)
	} else {
		c.uniformCondition(w)
	}
	f := w.Flow()
	l, err := c.target(f.DestOffset())
	if err != nil {
		return err
	}
	// JMPU selects its branch sense with the low bit of num_instructions.
	inverted := w.Op() == spec.JMPU && f.NumInstructions()&1 == 1
	if inverted {
		c.asm.Jz(l)
	} else {
		c.asm.Jnz(l)
	}
	return nil
}

func (c *compiler) compileEND() {
	c.asm.PopRegsAdjustStack(x64.CalleeSaved, 8)
	c.asm.Ret()
}
