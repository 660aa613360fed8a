package util

import (
	"fmt"
	"strconv"
	"unsafe"
)

type Word interface {
	uint8 | uint16 | uint32 | uint64
}

func RotL[T Word](x T, k uint) T {
	BitWidth := unsafe.Sizeof(x) * 8
	return (x << k) | (x >> (uint(BitWidth) - k))
}

func RotR[T Word](x T, k uint) T {
	BitWidth := unsafe.Sizeof(x) * 8
	return (x >> k) | (x << (uint(BitWidth) - k))
}

// ArrayToString renders every word as zero-padded hex of its full width, back to back.
func ArrayToString[T Word](arr []T) string {
	ret := ""

	for _, v := range arr {
		bitWidth := int(unsafe.Sizeof(v) * 8)
		ret += fmt.Sprintf("%0[1]*[2]x", bitWidth/4, v)
	}

	return ret
}

// ParseHexArray is the inverse of ArrayToString.
func ParseHexArray[T Word](s string) ([]T, error) {
	var zero T
	bitWidth := int(unsafe.Sizeof(zero) * 8)
	digits := bitWidth / 4

	if len(s)%digits != 0 {
		return nil, fmt.Errorf("hex array length %d is not a multiple of %d", len(s), digits)
	}

	ret := make([]T, 0, len(s)/digits)

	for i := 0; i < len(s); i += digits {
		v, err := strconv.ParseUint(s[i:i+digits], 16, bitWidth)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i/digits, err)
		}

		ret = append(ret, T(v))
	}

	return ret, nil
}
