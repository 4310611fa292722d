/*
Reciprocal and inverse-square-root lookup tables for VRCP/VRSQ and
friends (spec.md §4.7.1). Values are fixed at reset and are otherwise
read-only; there is no teacher analogue (the S370 has no such unit), so
the tables are built directly from the documented hardware formulas.
*/
package tables

// Entries is the size of each lookup table.
const Entries = 512

// Reciprocal is the 512-entry Q.16 reciprocal table used by
// VRCP/VRCPL/VRCPH.
var Reciprocal [Entries]uint16

// InverseSquareRoot is the 512-entry table used by VRSQ/VRSQL/VRSQH.
var InverseSquareRoot [Entries]uint16

func init() {
	buildReciprocal()
	buildInverseSquareRoot()
}

func buildReciprocal() {
	Reciprocal[0] = 0xFFFF
	for i := 1; i < Entries; i++ {
		v := (((uint64(1) << 34) / uint64(i+512)) + 1) >> 8
		Reciprocal[i] = uint16(v)
	}
}

func buildInverseSquareRoot() {
	const limit = uint64(1) << 44
	for i := 0; i < Entries; i++ {
		a := uint64(i+512) >> uint(i&1)
		var b uint64
		for a*(b+1)*(b+1) < limit {
			b++
		}
		InverseSquareRoot[i] = uint16(b >> 1)
	}
}
