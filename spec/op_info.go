package spec

// Family describes which bitfield layout an instruction word uses.
type Family uint8

const (
	// FamilyUnknown marks reserved opcode slots.
	FamilyUnknown Family = iota
	// FamilyTrivial instructions carry no operands (NOP, END, EMIT).
	FamilyTrivial
	// FamilyCommon is the arithmetic/comparison layout.
	FamilyCommon
	// FamilyMAD is the three-source multiply-add layout.
	FamilyMAD
	// FamilyFlow is the flow control layout.
	FamilyFlow
)

// Info is information about an Op.
type Info struct {
	Family Family
	// SrcInversed marks the variants that swap the roles of the wide and
	// narrow source operand fields (DPHI, DSTI, SGEI, SLTI, MADI).
	SrcInversed bool
}

func (o Op) Info() Info {
	return infos[o.Effective()]
}

var infos = map[Op]Info{
	ADD:  {Family: FamilyCommon},
	DP3:  {Family: FamilyCommon},
	DP4:  {Family: FamilyCommon},
	DPH:  {Family: FamilyCommon},
	DST:  {Family: FamilyCommon},
	EX2:  {Family: FamilyCommon},
	LG2:  {Family: FamilyCommon},
	MUL:  {Family: FamilyCommon},
	SGE:  {Family: FamilyCommon},
	SLT:  {Family: FamilyCommon},
	FLR:  {Family: FamilyCommon},
	MAX:  {Family: FamilyCommon},
	MIN:  {Family: FamilyCommon},
	RCP:  {Family: FamilyCommon},
	RSQ:  {Family: FamilyCommon},
	MOVA: {Family: FamilyCommon},
	MOV:  {Family: FamilyCommon},
	CMP:  {Family: FamilyCommon},

	DPHI: {Family: FamilyCommon, SrcInversed: true},
	DSTI: {Family: FamilyCommon, SrcInversed: true},
	SGEI: {Family: FamilyCommon, SrcInversed: true},
	SLTI: {Family: FamilyCommon, SrcInversed: true},

	MAD:  {Family: FamilyMAD},
	MADI: {Family: FamilyMAD, SrcInversed: true},

	NOP:     {Family: FamilyTrivial},
	END:     {Family: FamilyTrivial},
	EMIT:    {Family: FamilyTrivial},
	SETEMIT: {Family: FamilyTrivial},

	BREAKC: {Family: FamilyFlow},
	CALL:   {Family: FamilyFlow},
	CALLC:  {Family: FamilyFlow},
	CALLU:  {Family: FamilyFlow},
	IFU:    {Family: FamilyFlow},
	IFC:    {Family: FamilyFlow},
	LOOP:   {Family: FamilyFlow},
	JMPC:   {Family: FamilyFlow},
	JMPU:   {Family: FamilyFlow},
}

var opNames = map[Op]string{
	ADD: "add", DP3: "dp3", DP4: "dp4", DPH: "dph", DST: "dst",
	EX2: "ex2", LG2: "lg2", MUL: "mul", SGE: "sge", SLT: "slt",
	FLR: "flr", MAX: "max", MIN: "min", RCP: "rcp", RSQ: "rsq",
	MOVA: "mova", MOV: "mov",
	DPHI: "dphi", DSTI: "dsti", SGEI: "sgei", SLTI: "slti",
	NOP: "nop", END: "end", BREAKC: "breakc",
	CALL: "call", CALLC: "callc", CALLU: "callu",
	IFU: "ifu", IFC: "ifc", LOOP: "loop",
	EMIT: "emit", SETEMIT: "setemit",
	JMPC: "jmpc", JMPU: "jmpu", CMP: "cmp",
	MADI: "madi", MAD: "mad",
}

func (o Op) String() string {
	if s, ok := opNames[o.Effective()]; ok {
		return s
	}
	return "unknown"
}

// All returns every canonical Op, in opcode order.
func All() (ret []Op) {
	for i := 0; i < 1<<OpBits; i++ {
		o := Op(i)
		if o.Effective() != o {
			continue
		}
		if _, ok := infos[o]; ok {
			ret = append(ret, o)
		}
	}
	return ret
}
