package x64

// RegSet is a set of general purpose and SSE registers.
type RegSet struct {
	gp  uint16
	xmm uint16
}

// Regs builds a RegSet from register lists.
func Regs(gps []Reg, xmms []Xmm) RegSet {
	var s RegSet
	for _, r := range gps {
		s.gp |= 1 << r
	}
	for _, x := range xmms {
		s.xmm |= 1 << x
	}
	return s
}

// And intersects two sets.
func (s RegSet) And(o RegSet) RegSet {
	return RegSet{gp: s.gp & o.gp, xmm: s.xmm & o.xmm}
}

// GPs returns the general purpose members in ascending order.
func (s RegSet) GPs() (ret []Reg) {
	for r := RAX; r <= R15; r++ {
		if s.gp&(1<<r) != 0 {
			ret = append(ret, r)
		}
	}
	return ret
}

// Xmms returns the SSE members in ascending order.
func (s RegSet) Xmms() (ret []Xmm) {
	for x := XMM0; x <= XMM15; x++ {
		if s.xmm&(1<<x) != 0 {
			ret = append(ret, x)
		}
	}
	return ret
}

// System V AMD64 argument and preservation conventions.
var (
	// Param1..Param3 are the first three integer argument registers.
	Param1 = RDI
	Param2 = RSI
	Param3 = RDX

	// CalleeSaved is every register a called function must preserve.
	CalleeSaved = Regs([]Reg{RBX, RBP, R12, R13, R14, R15}, nil)

	// CallerSaved is every register a call may clobber. All SSE registers
	// are caller saved.
	CallerSaved = Regs(
		[]Reg{RAX, RCX, RDX, RSI, RDI, R8, R9, R10, R11},
		[]Xmm{XMM0, XMM1, XMM2, XMM3, XMM4, XMM5, XMM6, XMM7,
			XMM8, XMM9, XMM10, XMM11, XMM12, XMM13, XMM14, XMM15},
	)
)

// PushRegsAdjustStack saves s and adjusts rsp so it is 16-byte aligned
// afterwards. misalign is rsp mod 16 before the first push (8 at function
// entry). XMM members are stored below the pushed GPRs.
func (a *Assembler) PushRegsAdjustStack(s RegSet, misalign int) {
	gps := s.GPs()
	for _, r := range gps {
		a.PushR(r)
	}
	sub := stackSub(s, misalign)
	if sub > 0 {
		a.SubRI(RSP, int32(sub))
	}
	for i, x := range s.Xmms() {
		a.MovupsMX(M(RSP, int32(16*i)), x)
	}
}

// PopRegsAdjustStack undoes PushRegsAdjustStack with the same arguments.
func (a *Assembler) PopRegsAdjustStack(s RegSet, misalign int) {
	xmms := s.Xmms()
	for i, x := range xmms {
		a.MovupsXM(x, M(RSP, int32(16*i)))
	}
	sub := stackSub(s, misalign)
	if sub > 0 {
		a.AddRI(RSP, int32(sub))
	}
	gps := s.GPs()
	for i := len(gps) - 1; i >= 0; i-- {
		a.PopR(gps[i])
	}
}

func stackSub(s RegSet, misalign int) int {
	after := (misalign + 8*len(s.GPs())) % 16
	return 16*len(s.Xmms()) + (16-after)%16
}
