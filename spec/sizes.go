package spec

const (
	// MaxProgramSize is the maximum number of instruction words in a
	// vertex shader program.
	MaxProgramSize = 512
	// MaxSwizzleData is the number of operand descriptor slots.
	MaxSwizzleData = 128

	// NumFloatUniforms is the number of 4-component float uniforms (c0..c95).
	NumFloatUniforms = 96
	// NumIntUniforms is the number of integer uniforms used by LOOP.
	NumIntUniforms = 4
	// NumBoolUniforms is the number of boolean uniforms used by CALLU/IFU/JMPU.
	NumBoolUniforms = 16

	// NumInputRegisters is the number of input attribute registers (v0..v15).
	NumInputRegisters = 16
	// NumTemporaryRegisters is the number of temporary registers (r0..r15).
	NumTemporaryRegisters = 16
	// NumOutputRegisters is the number of output registers (o0..o15).
	NumOutputRegisters = 16

	// VecBytes is the byte stride of one 4 x f32 register.
	VecBytes = 16

	// MaxShaderBytes caps the size of one compiled shader's native code.
	MaxShaderBytes = 1024 * 1024 * 2
)
