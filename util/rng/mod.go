package rng

import (
	"unsafe"

	"github.com/xor-shift/rngkit/util"
)

func GenericRotLeft[T util.Word](x T, k int) T {
	return util.RotL(x, uint(k))
}

// jumpImpl advances state by the polynomial encoded in table, equivalent to a fixed
// (and very large) number of calls to permute.
func jumpImpl[T util.Word](state []T, table []T, permute func([]T) T) {
	bitWidth := int(unsafe.Sizeof(table[0]) * 8)
	s := make([]T, len(state))

	for i := 0; i < len(table); i++ {
		for b := 0; b < bitWidth; b++ {
			if table[i]&(T(1)<<b) != 0 {
				for j := 0; j < len(state); j++ {
					s[j] ^= state[j]
				}
			}
			_ = permute(state)
		}
	}

	copy(state, s)
}
