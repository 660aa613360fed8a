package rng

import (
	"errors"
	"fmt"

	"github.com/xor-shift/rngkit/util"
)

var ErrInvalidState = errors.New("rng: invalid generator state")

const xoshiro256StateWords = 4

// Xoshiro256SS is a xoshiro256** generator. It owns a private copy of its state;
// use State to observe or checkpoint it.
//
// A Xoshiro256SS is not safe for concurrent use.
type Xoshiro256SS struct {
	state [xoshiro256StateWords]uint64
}

// NewXoshiro256SS wraps the given state, which must hold exactly 4 words. The
// caller is responsible for seeding; an all-zero state only ever yields zeros.
func NewXoshiro256SS(state []uint64) (*Xoshiro256SS, error) {
	if len(state) != xoshiro256StateWords {
		return nil, fmt.Errorf("%w: want %d words, got %d", ErrInvalidState, xoshiro256StateWords, len(state))
	}

	x := &Xoshiro256SS{}
	copy(x.state[:], state)

	return x, nil
}

// NewXoshiro256SSFromSeed seeds the state with SplitMix64.
func NewXoshiro256SSFromSeed(seed uint64) *Xoshiro256SS {
	return &Xoshiro256SS{state: ExpandSeed(seed)}
}

func (x *Xoshiro256SS) State() [4]uint64 {
	return x.state
}

func (x *Xoshiro256SS) NextWord() uint64 {
	return xoshiro256SSPermuteState(x.state[:])
}

// NextWordBounded returns a value in [0, max). It panics if max == 0.
func (x *Xoshiro256SS) NextWordBounded(max uint64) uint64 {
	if max == 0 {
		panic("rng: invalid argument to NextWordBounded")
	}

	return clampWord64(rescaleWord64(x.NextWord(), float64(max)), max)
}

// NextDouble returns a value in [0, 1].
func (x *Xoshiro256SS) NextDouble() float64 {
	return float64(x.NextWord()) / maxWord64Float
}

// Jump is equivalent to 2^128 calls to NextWord.
func (x *Xoshiro256SS) Jump() {
	var jump = [4]uint64{
		0x180ec6d33cfd0aba,
		0xd5a61266f0c9392c,
		0xa9582618e03fc9aa,
		0x39abdc4529b1661c,
	}

	jumpImpl(x.state[:], jump[:], xoshiro256SSPermuteState)
}

// LongJump is equivalent to 2^192 calls to NextWord.
func (x *Xoshiro256SS) LongJump() {
	var jump = [4]uint64{
		0x76e15d3efefdcbbf,
		0xc5004e441c522fb3,
		0x77710069854ee241,
		0x39109bb02acbe635,
	}

	jumpImpl(x.state[:], jump[:], xoshiro256SSPermuteState)
}

func (x *Xoshiro256SS) String() string {
	return util.ArrayToString(x.state[:])
}

// math/rand.Source64

func (x *Xoshiro256SS) Uint64() uint64 {
	return x.NextWord()
}

func (x *Xoshiro256SS) Int63() int64 {
	return int64(x.NextWord() >> 1)
}

func (x *Xoshiro256SS) Seed(seed int64) {
	x.state = ExpandSeed(uint64(seed))
}
