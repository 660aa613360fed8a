package rng

import "math"

// Ranged outputs divide the raw word by (MaxWord / span) in floating point instead of
// reducing it modulo span. The slight bias this introduces is kept so that streams stay
// identical to those produced by existing consumers of these generators.

const (
	maxWord32      uint32  = math.MaxUint32
	maxWord32Float float64 = math.MaxUint32
	maxWord64Float float64 = math.MaxUint64

	coarseScale = 1e12
)

func rescaleWord32(w uint32, span float64) float64 {
	return float64(w) / (maxWord32Float / span)
}

func rescaleWord64(w uint64, span float64) float64 {
	return float64(w) / (maxWord64Float / span)
}

// the top of the scale lands exactly on max; fold it into the last bucket
func clampWord32(f float64, max uint32) uint32 {
	if f >= float64(max) {
		return max - 1
	}

	return uint32(f)
}

func clampWord64(f float64, max uint64) uint64 {
	if f >= float64(max) {
		return max - 1
	}

	return uint64(f)
}

// rescaleInt32 floors rather than truncates so that negative results fall into the
// bucket below them.
func rescaleInt32(w uint32, min, max int32) int32 {
	span := int64(max) - int64(min)

	v := int64(math.Floor(rescaleWord32(w, float64(span)) + float64(min)))
	if v >= int64(max) {
		v = int64(max) - 1
	}

	return int32(v)
}

func byteFromWord32(w uint32) byte {
	return byte(w / (maxWord32 / math.MaxUint8))
}
