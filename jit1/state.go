// package jit1 translates PICA200 vertex shader programs into native
// x86-64 code, one compiled function per shader program.
package jit1

import (
	"math"
	"unsafe"

	"picaweb.org/picajit/picaisa"
	"picaweb.org/picajit/spec"
)

// Vec4 is one 4-component float register.
type Vec4 [4]float32

// ShaderSetup is the uniform block shared by every unit running a program.
// Emitted code reads it through a base pointer; it is never written.
type ShaderSetup struct {
	// F holds the float uniforms c0..c95.
	F [spec.NumFloatUniforms]Vec4
	// I holds the integer uniforms. Byte 0 is the LOOP iteration count
	// minus one, byte 1 the starting offset, byte 2 the increment.
	I [spec.NumIntUniforms][4]uint8
	// B holds the boolean uniforms read by CALLU, IFU and JMPU.
	B [spec.NumBoolUniforms]bool
}

// UnitState is the per-unit register block: input attributes, temporaries,
// and outputs. Each invocation owns its UnitState exclusively.
type UnitState struct {
	Input     [spec.NumInputRegisters]Vec4
	Temporary [spec.NumTemporaryRegisters]Vec4
	Output    [spec.NumOutputRegisters]Vec4
}

func floatUniformOffset(i int) int32 {
	return int32(unsafe.Offsetof(ShaderSetup{}.F)) + int32(i)*spec.VecBytes
}

func intUniformOffset(i int) int32 {
	return int32(unsafe.Offsetof(ShaderSetup{}.I)) + int32(i)*4
}

func boolUniformOffset(i int) int32 {
	return int32(unsafe.Offsetof(ShaderSetup{}.B)) + int32(i)
}

// inputOffset returns the UnitState byte offset of a source register.
// Float uniforms live in ShaderSetup and are not addressed through here.
func inputOffset(r picaisa.SourceRegister) int32 {
	switch r.Type() {
	case picaisa.Input:
		return int32(unsafe.Offsetof(UnitState{}.Input)) + int32(r.Index())*spec.VecBytes
	case picaisa.Temporary:
		return int32(unsafe.Offsetof(UnitState{}.Temporary)) + int32(r.Index())*spec.VecBytes
	default:
		panic("inputOffset: not a unit register")
	}
}

// outputOffset returns the UnitState byte offset of a destination register.
func outputOffset(r picaisa.DestRegister) int32 {
	switch r.Type() {
	case picaisa.Output:
		return int32(unsafe.Offsetof(UnitState{}.Output)) + int32(r.Index())*spec.VecBytes
	default:
		return int32(unsafe.Offsetof(UnitState{}.Temporary)) + int32(r.Index())*spec.VecBytes
	}
}

// The two SIMD constants loaded at function entry. Package level so their
// addresses are stable for the lifetime of the process.
var (
	vecOne    = Vec4{1, 1, 1, 1}
	vecNegBit = Vec4{negZero, negZero, negZero, negZero}
)

var negZero = math.Float32frombits(1 << 31)
