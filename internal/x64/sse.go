package x64

// Compare predicates for Cmpps/Cmpss.
const (
	PredEQ    = 0
	PredLT    = 1
	PredLE    = 2
	PredUNORD = 3
	PredNEQ   = 4
	PredNLT   = 5
	PredNLE   = 6
	PredORD   = 7
)

// Rounding modes for Roundps.
const (
	RoundNearest = 0
	RoundFloor   = 1
	RoundCeil    = 2
	RoundTrunc   = 3
)

var (
	pfx66 = []byte{0x66}
	pfxF3 = []byte{0xf3}
)

// MovupsXM emits movups xmm, [m].
func (a *Assembler) MovupsXM(dst Xmm, m Mem) {
	a.opMem(nil, false, byte(dst), m, 0x0f, 0x10)
}

// MovupsMX emits movups [m], xmm.
func (a *Assembler) MovupsMX(m Mem, src Xmm) {
	a.opMem(nil, false, byte(src), m, 0x0f, 0x11)
}

// MovapsXX emits movaps xmm, xmm.
func (a *Assembler) MovapsXX(dst, src Xmm) {
	a.opRR(nil, false, byte(dst), byte(src), 0x0f, 0x28)
}

func (a *Assembler) sseXX(prefix []byte, dst, src Xmm, opcode ...byte) {
	a.opRR(prefix, false, byte(dst), byte(src), opcode...)
}

// Addps emits addps dst, src.
func (a *Assembler) Addps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x58) }

// Mulps emits mulps dst, src.
func (a *Assembler) Mulps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x59) }

// Minps emits minps dst, src. NaN in either lane selects src.
func (a *Assembler) Minps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x5d) }

// Maxps emits maxps dst, src. NaN in either lane selects src.
func (a *Assembler) Maxps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x5f) }

// Andps emits andps dst, src.
func (a *Assembler) Andps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x54) }

// Xorps emits xorps dst, src.
func (a *Assembler) Xorps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x57) }

// Unpcklps emits unpcklps dst, src.
func (a *Assembler) Unpcklps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x14) }

// Unpckhps emits unpckhps dst, src.
func (a *Assembler) Unpckhps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x15) }

// Unpcklpd emits unpcklpd dst, src.
func (a *Assembler) Unpcklpd(dst, src Xmm) { a.sseXX(pfx66, dst, src, 0x0f, 0x14) }

// Shufps emits shufps dst, src, imm.
func (a *Assembler) Shufps(dst, src Xmm, imm uint8) {
	a.sseXX(nil, dst, src, 0x0f, 0xc6)
	a.emit(imm)
}

// Cmpps emits cmpps dst, src, pred.
func (a *Assembler) Cmpps(dst, src Xmm, pred uint8) {
	a.sseXX(nil, dst, src, 0x0f, 0xc2)
	a.emit(pred)
}

// Cmpss emits cmpss dst, src, pred.
func (a *Assembler) Cmpss(dst, src Xmm, pred uint8) {
	a.sseXX(pfxF3, dst, src, 0x0f, 0xc2)
	a.emit(pred)
}

// Movss emits movss dst, src over registers, merging into dst's upper lanes.
func (a *Assembler) Movss(dst, src Xmm) {
	a.sseXX(pfxF3, dst, src, 0x0f, 0x10)
}

// Rcpss emits rcpss dst, src (approximate scalar reciprocal).
func (a *Assembler) Rcpss(dst, src Xmm) { a.sseXX(pfxF3, dst, src, 0x0f, 0x53) }

// Rsqrtss emits rsqrtss dst, src (approximate scalar reciprocal sqrt).
func (a *Assembler) Rsqrtss(dst, src Xmm) { a.sseXX(pfxF3, dst, src, 0x0f, 0x52) }

// Cvttps2dq emits cvttps2dq dst, src (truncating float→int32 per lane).
func (a *Assembler) Cvttps2dq(dst, src Xmm) { a.sseXX(pfxF3, dst, src, 0x0f, 0x5b) }

// Cvtdq2ps emits cvtdq2ps dst, src.
func (a *Assembler) Cvtdq2ps(dst, src Xmm) { a.sseXX(nil, dst, src, 0x0f, 0x5b) }

// MovqRX emits movq r64, xmm.
func (a *Assembler) MovqRX(dst Reg, src Xmm) {
	a.opRR(pfx66, true, byte(src), byte(dst), 0x0f, 0x7e)
}

// Blendps emits blendps dst, src, mask (SSE4.1).
func (a *Assembler) Blendps(dst, src Xmm, mask uint8) {
	a.sseXX(pfx66, dst, src, 0x0f, 0x3a, 0x0c)
	a.emit(mask)
}

// Roundps emits roundps dst, src, mode (SSE4.1).
func (a *Assembler) Roundps(dst, src Xmm, mode uint8) {
	a.sseXX(pfx66, dst, src, 0x0f, 0x3a, 0x08)
	a.emit(mode)
}
