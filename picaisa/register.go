package picaisa

import "fmt"

// RegisterType classifies a shader register file.
type RegisterType uint8

const (
	Input RegisterType = iota
	Temporary
	FloatUniform
	Output
)

func (rt RegisterType) String() string {
	switch rt {
	case Input:
		return "v"
	case Temporary:
		return "r"
	case FloatUniform:
		return "c"
	case Output:
		return "o"
	default:
		return "?"
	}
}

// SourceRegister is the raw 7-bit source register field of an instruction.
// Values below 0x10 name input attributes, below 0x20 temporaries, and the
// rest float uniforms.
type SourceRegister uint8

func (r SourceRegister) Type() RegisterType {
	switch {
	case r < 0x10:
		return Input
	case r < 0x20:
		return Temporary
	default:
		return FloatUniform
	}
}

func (r SourceRegister) Index() int {
	switch r.Type() {
	case Input:
		return int(r)
	case Temporary:
		return int(r) - 0x10
	default:
		return int(r) - 0x20
	}
}

func (r SourceRegister) String() string {
	return fmt.Sprintf("%v%d", r.Type(), r.Index())
}

// DestRegister is the raw 5-bit destination register field.
// Values below 0x10 name output registers, the rest temporaries.
type DestRegister uint8

func (r DestRegister) Type() RegisterType {
	if r < 0x10 {
		return Output
	}
	return Temporary
}

func (r DestRegister) Index() int {
	if r < 0x10 {
		return int(r)
	}
	return int(r) - 0x10
}

func (r DestRegister) String() string {
	return fmt.Sprintf("%v%d", r.Type(), r.Index())
}
