package rng

// permutes a [4]uint64 state according to xoshiro256**
// https://prng.di.unimi.it/xoshiro256starstar.c
//
// The result is taken from s[1] before any of the state words change.
func xoshiro256SSPermuteState(s []uint64) (result uint64) {
	result = GenericRotLeft(s[1]*5, 7) * 9

	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t

	s[3] = GenericRotLeft(s[3], 45)

	return
}

// steps a [624]uint32 state once according to the MT19937 recurrence
// http://www.math.sci.hiroshima-u.ac.jp/m-mat/MT/MT2002/CODES/mt19937ar.c
func mt19937Twist(mt *[mtN]uint32) {
	for k := 0; k < mtN; k++ {
		y := (mt[k] & mtUpperMask) | (mt[(k+1)%mtN] & mtLowerMask)
		mt[k] = mt[(k+mtM)%mtN] ^ (y >> 1) ^ mtMag01[y&1]
	}
}

func mt19937Temper(y uint32) uint32 {
	y ^= y >> 11
	y ^= (y << 7) & mtTemperingB
	y ^= (y << 15) & mtTemperingC
	y ^= y >> 18

	return y
}
