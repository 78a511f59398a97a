package x64

// MovRR emits mov r64, r64.
func (a *Assembler) MovRR(dst, src Reg) {
	a.opRR(nil, true, byte(src), byte(dst), 0x89)
}

// MovRR32 emits mov r32, r32.
func (a *Assembler) MovRR32(dst, src Reg) {
	a.opRR(nil, false, byte(src), byte(dst), 0x89)
}

// MovRI64 emits movabs r64, imm64.
func (a *Assembler) MovRI64(dst Reg, imm uint64) {
	a.rex(true, false, false, dst >= 8, false)
	a.emit(0xb8 + byte(dst)&7)
	a.emitU64(imm)
}

// MovRI32 emits mov r32, imm32, zero extending into the full register.
func (a *Assembler) MovRI32(dst Reg, imm uint32) {
	a.rex(false, false, false, dst >= 8, false)
	a.emit(0xb8 + byte(dst)&7)
	a.emitU32(imm)
}

// MovRM32 emits mov r32, dword [m].
func (a *Assembler) MovRM32(dst Reg, m Mem) {
	a.opMem(nil, false, byte(dst), m, 0x8b)
}

// MovRM emits mov r64, qword [m].
func (a *Assembler) MovRM(dst Reg, m Mem) {
	a.opMem(nil, true, byte(dst), m, 0x8b)
}

// MovsxdRR emits movsxd r64, r32.
func (a *Assembler) MovsxdRR(dst, src Reg) {
	a.opRR(nil, true, byte(dst), byte(src), 0x63)
}

// MovzxR32R8 emits movzx r32, r8 over the low byte of src.
func (a *Assembler) MovzxR32R8(dst, src Reg) {
	// sil/dil/spl/bpl are only addressable with a REX prefix present.
	force := src >= RSP && src <= RDI
	a.rex(false, dst >= 8, false, src >= 8, force)
	a.emit(0x0f, 0xb6)
	a.emit(modrm(3, byte(dst), byte(src)))
}

// ShlRI emits shl r64, imm8.
func (a *Assembler) ShlRI(r Reg, imm uint8) {
	a.opRR(nil, true, 4, byte(r), 0xc1)
	a.emit(imm)
}

// ShrRI emits shr r64, imm8.
func (a *Assembler) ShrRI(r Reg, imm uint8) {
	a.opRR(nil, true, 5, byte(r), 0xc1)
	a.emit(imm)
}

// ShrRI32 emits shr r32, imm8.
func (a *Assembler) ShrRI32(r Reg, imm uint8) {
	a.opRR(nil, false, 5, byte(r), 0xc1)
	a.emit(imm)
}

// AndRI32 emits and r32, imm32.
func (a *Assembler) AndRI32(r Reg, imm uint32) {
	a.opRR(nil, false, 4, byte(r), 0x81)
	a.emitU32(imm)
}

// XorRR32 emits xor r32, r32.
func (a *Assembler) XorRR32(dst, src Reg) {
	a.opRR(nil, false, byte(src), byte(dst), 0x31)
}

// XorRI32 emits xor r32, imm32.
func (a *Assembler) XorRI32(r Reg, imm uint32) {
	a.opRR(nil, false, 6, byte(r), 0x81)
	a.emitU32(imm)
}

// OrRR32 emits or r32, r32.
func (a *Assembler) OrRR32(dst, src Reg) {
	a.opRR(nil, false, byte(src), byte(dst), 0x09)
}

// AndRR32 emits and r32, r32.
func (a *Assembler) AndRR32(dst, src Reg) {
	a.opRR(nil, false, byte(src), byte(dst), 0x21)
}

// AddRR32 emits add r32, r32.
func (a *Assembler) AddRR32(dst, src Reg) {
	a.opRR(nil, false, byte(src), byte(dst), 0x01)
}

// AddRI emits add r64, imm.
func (a *Assembler) AddRI(r Reg, imm int32) {
	if imm >= -128 && imm <= 127 {
		a.opRR(nil, true, 0, byte(r), 0x83)
		a.emit(byte(imm))
	} else {
		a.opRR(nil, true, 0, byte(r), 0x81)
		a.emitU32(uint32(imm))
	}
}

// SubRI emits sub r64, imm.
func (a *Assembler) SubRI(r Reg, imm int32) {
	if imm >= -128 && imm <= 127 {
		a.opRR(nil, true, 5, byte(r), 0x83)
		a.emit(byte(imm))
	} else {
		a.opRR(nil, true, 5, byte(r), 0x81)
		a.emitU32(uint32(imm))
	}
}

// AddRI32 emits add r32, imm8.
func (a *Assembler) AddRI32(r Reg, imm int8) {
	a.opRR(nil, false, 0, byte(r), 0x83)
	a.emit(byte(imm))
}

// SubRI32 emits sub r32, imm32.
func (a *Assembler) SubRI32(r Reg, imm uint32) {
	a.opRR(nil, false, 5, byte(r), 0x81)
	a.emitU32(imm)
}

// CmpRI32 emits cmp r32, imm32.
func (a *Assembler) CmpRI32(r Reg, imm uint32) {
	a.opRR(nil, false, 7, byte(r), 0x81)
	a.emitU32(imm)
}

// CmpMI8 emits cmp byte [m], imm8.
func (a *Assembler) CmpMI8(m Mem, imm uint8) {
	a.opMem(nil, false, 7, m, 0x80)
	a.emit(imm)
}

// PushR emits push r64.
func (a *Assembler) PushR(r Reg) {
	a.rex(false, false, false, r >= 8, false)
	a.emit(0x50 + byte(r)&7)
}

// PopR emits pop r64.
func (a *Assembler) PopR(r Reg) {
	a.rex(false, false, false, r >= 8, false)
	a.emit(0x58 + byte(r)&7)
}

// PushI32 emits push imm32 (sign extended to 64 bits on the stack).
func (a *Assembler) PushI32(imm int32) {
	a.emit(0x68)
	a.emitU32(uint32(imm))
}

// Ret emits a near return.
func (a *Assembler) Ret() { a.emit(0xc3) }

// CallR emits call r64.
func (a *Assembler) CallR(r Reg) {
	a.rex(false, false, false, r >= 8, false)
	a.emit(0xff, modrm(3, 2, byte(r)))
}

// JmpR emits jmp r64.
func (a *Assembler) JmpR(r Reg) {
	a.rex(false, false, false, r >= 8, false)
	a.emit(0xff, modrm(3, 4, byte(r)))
}

// CallFar materializes an absolute address into scratch and calls through
// it. Used to invoke runtime helpers from emitted code.
func (a *Assembler) CallFar(addr uintptr, scratch Reg) {
	a.MovRI64(scratch, uint64(addr))
	a.CallR(scratch)
}
