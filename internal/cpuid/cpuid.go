// package cpuid answers the host feature queries code generation needs.
package cpuid

import "github.com/klauspost/cpuid/v2"

// HasSSE41 reports whether the host supports SSE4.1 (blendps, roundps).
func HasSSE41() bool {
	return cpuid.CPU.Supports(cpuid.SSE4)
}
