package rng

// SplitMix64 is the seed expander recommended for the xoshiro family.
// https://prng.di.unimi.it/splitmix64.c
type SplitMix64 struct {
	state uint64
}

func NewSplitMix64(seed uint64) *SplitMix64 {
	return &SplitMix64{state: seed}
}

func (s *SplitMix64) Next() uint64 {
	s.state += 0x9e3779b97f4a7c15

	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}

// ExpandSeed derives a full xoshiro256 state from a single 64-bit seed.
func ExpandSeed(seed uint64) [4]uint64 {
	sm := NewSplitMix64(seed)

	return [4]uint64{sm.Next(), sm.Next(), sm.Next(), sm.Next()}
}
