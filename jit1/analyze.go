package jit1

import (
	"slices"

	"picaweb.org/picajit/picaisa"
	"picaweb.org/picajit/spec"
)

// returnOffsets scans the program for CALL, CALLC and CALLU and collects the
// instruction offset just past each called region. The compiler splices a
// return check at every member. Sorted and deduplicated for binary search.
func returnOffsets(prog []picaisa.Instruction) []uint32 {
	var ret []uint32
	for _, w := range prog {
		switch w.Op() {
		case spec.CALL, spec.CALLC, spec.CALLU:
			f := w.Flow()
			ret = append(ret, f.DestOffset()+f.NumInstructions())
		}
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}
