package rng

import (
	"fmt"
	"math/rand"

	"github.com/xor-shift/rngkit/util"
)

const (
	mtN          = 624
	mtM          = 397
	mtMatrixA    = 0x9908b0df
	mtUpperMask  = 0x80000000
	mtLowerMask  = 0x7fffffff
	mtTemperingB = 0x9d2c5680
	mtTemperingC = 0xefc60000

	// multiplier of the LCG that fills the initial state from the seed
	mtSeedMultiplier = 69069
)

var mtMag01 = [2]uint32{0, mtMatrixA}

// MersenneTwister is an MT19937 generator whose initial state is filled by the
// x -> 69069*x LCG rather than the reference init_genrand routine, so its output
// differs from textbook MT19937 for the same seed.
//
// A MersenneTwister is not safe for concurrent use.
type MersenneTwister struct {
	mt   [mtN]uint32
	mti  int
	seed uint32
}

// MTState is a copy of the full internal state of a MersenneTwister.
type MTState struct {
	Words  [mtN]uint32
	Cursor int
	Seed   uint32
}

func NewMersenneTwister(seed uint32) *MersenneTwister {
	mt := &MersenneTwister{}
	mt.Reset(seed)

	return mt
}

// Reset discards the whole state and refills it from seed. The first draw after a
// Reset performs a twist.
func (mt *MersenneTwister) Reset(seed uint32) {
	mt.seed = seed
	mt.mt[0] = seed

	for i := 1; i < mtN; i++ {
		mt.mt[i] = mtSeedMultiplier * mt.mt[i-1]
	}

	mt.mti = mtN
}

// Seed returns the value passed to the last Reset.
func (mt *MersenneTwister) Seed() uint32 {
	return mt.seed
}

// Cursor returns the index of the next state word to be tempered, in [0, 624].
func (mt *MersenneTwister) Cursor() int {
	return mt.mti
}

func (mt *MersenneTwister) State() MTState {
	return MTState{
		Words:  mt.mt,
		Cursor: mt.mti,
		Seed:   mt.seed,
	}
}

// Clone returns an independent generator at the same point of the stream.
func (mt *MersenneTwister) Clone() *MersenneTwister {
	clone := *mt
	return &clone
}

func (mt *MersenneTwister) Restore(state MTState) error {
	if state.Cursor < 0 || state.Cursor > mtN {
		return fmt.Errorf("%w: cursor %d out of [0, %d]", ErrInvalidState, state.Cursor, mtN)
	}

	mt.mt = state.Words
	mt.mti = state.Cursor
	mt.seed = state.Seed

	return nil
}

func (mt *MersenneTwister) NextWord() uint32 {
	if mt.mti >= mtN {
		mt19937Twist(&mt.mt)
		mt.mti = 0
	}

	y := mt.mt[mt.mti]
	mt.mti++

	return mt19937Temper(y)
}

// NextWordBounded returns a value in [0, max). It panics if max == 0.
func (mt *MersenneTwister) NextWordBounded(max uint32) uint32 {
	if max == 0 {
		panic("rng: invalid argument to NextWordBounded")
	}

	return clampWord32(rescaleWord32(mt.NextWord(), float64(max)), max)
}

// NextWordRanged returns a value in [min, max). It panics if max <= min.
func (mt *MersenneTwister) NextWordRanged(min, max uint32) uint32 {
	if max <= min {
		panic("rng: invalid argument to NextWordRanged")
	}

	return clampWord32(rescaleWord32(mt.NextWord(), float64(max-min))+float64(min), max)
}

// NextInt returns a non-negative int32.
func (mt *MersenneTwister) NextInt() int32 {
	return int32(mt.NextWord() / 2)
}

// NextIntBounded returns a value in [0, max). It panics if max <= 0.
func (mt *MersenneTwister) NextIntBounded(max int32) int32 {
	if max <= 0 {
		panic("rng: invalid argument to NextIntBounded")
	}

	return int32(clampWord32(rescaleWord32(mt.NextWord(), float64(max)), uint32(max)))
}

// NextIntRanged returns a value in [min, max). It panics if max <= min.
func (mt *MersenneTwister) NextIntRanged(min, max int32) int32 {
	if max <= min {
		panic("rng: invalid argument to NextIntRanged")
	}

	return rescaleInt32(mt.NextWord(), min, max)
}

// FillBytes fills buf one byte per drawn word.
func (mt *MersenneTwister) FillBytes(buf []byte) {
	for i := range buf {
		buf[i] = byteFromWord32(mt.NextWord())
	}
}

func (mt *MersenneTwister) NextBytes(n int) []byte {
	buf := make([]byte, n)
	mt.FillBytes(buf)

	return buf
}

// NextDouble returns a value in [0, 1], both ends inclusive.
func (mt *MersenneTwister) NextDouble() float64 {
	return float64(mt.NextWord()) / maxWord32Float
}

// NextCoarseUint64 scales NextDouble to [0, 1e12]. It carries about 32 bits of
// entropy, not 64.
func (mt *MersenneTwister) NextCoarseUint64() uint64 {
	return uint64(mt.NextDouble() * coarseScale)
}

func (mt *MersenneTwister) String() string {
	return fmt.Sprintf("%08x@%03d:%s", mt.seed, mt.mti, util.ArrayToString(mt.mt[:]))
}

// Source returns a math/rand source drawing from mt. Every Uint64 consumes two
// words, high word first.
func (mt *MersenneTwister) Source() rand.Source64 {
	return &mtSource{mt: mt}
}

type mtSource struct {
	mt *MersenneTwister
}

func (s *mtSource) Uint64() uint64 {
	hi := uint64(s.mt.NextWord())
	lo := uint64(s.mt.NextWord())

	return hi<<32 | lo
}

func (s *mtSource) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

func (s *mtSource) Seed(seed int64) {
	s.mt.Reset(uint32(seed))
}
