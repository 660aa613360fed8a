package common

import (
	"math"

	"github.com/xor-shift/rngkit/util"
	"github.com/xor-shift/rngkit/util/rng"
)

// Generator is the common surface of the generators a session can replicate. Words of
// 32-bit generators are widened to 64 bits.
type Generator interface {
	Kind() string
	NextWord() uint64
	NextDouble() float64
	NextWordBounded(max uint64) uint64
	// Drawn is the number of words consumed since the generator was seeded.
	Drawn() uint
	Clone() Generator
	Checkpoint() Descriptor
}

type mtGenerator struct {
	mt    *rng.MersenneTwister
	drawn uint
}

func (g *mtGenerator) Kind() string { return KindMT19937 }
func (g *mtGenerator) Drawn() uint  { return g.drawn }

func (g *mtGenerator) NextWord() uint64 {
	g.drawn++
	return uint64(g.mt.NextWord())
}

func (g *mtGenerator) NextDouble() float64 {
	g.drawn++
	return g.mt.NextDouble()
}

// NextWordBounded panics unless 0 < max <= 2^32-1.
func (g *mtGenerator) NextWordBounded(max uint64) uint64 {
	if max > math.MaxUint32 {
		panic("common: bound out of range for mt19937")
	}

	v := g.mt.NextWordBounded(uint32(max))
	g.drawn++

	return uint64(v)
}

func (g *mtGenerator) Clone() Generator {
	return &mtGenerator{mt: g.mt.Clone(), drawn: g.drawn}
}

func (g *mtGenerator) Checkpoint() Descriptor {
	state := g.mt.State()

	return Descriptor{
		Kind:   KindMT19937,
		Seed:   uint64(state.Seed),
		State:  util.ArrayToString(state.Words[:]),
		Cursor: state.Cursor,
		Drawn:  g.drawn,
	}
}

// MersenneTwister exposes the wrapped generator for the derived outputs that only it has.
func (g *mtGenerator) MersenneTwister() *rng.MersenneTwister {
	return g.mt
}

type xoshiroGenerator struct {
	x     *rng.Xoshiro256SS
	seed  uint64
	drawn uint
}

func (g *xoshiroGenerator) Kind() string { return KindXoshiro256SS }
func (g *xoshiroGenerator) Drawn() uint  { return g.drawn }

func (g *xoshiroGenerator) NextWord() uint64 {
	g.drawn++
	return g.x.NextWord()
}

func (g *xoshiroGenerator) NextDouble() float64 {
	g.drawn++
	return g.x.NextDouble()
}

func (g *xoshiroGenerator) NextWordBounded(max uint64) uint64 {
	v := g.x.NextWordBounded(max)
	g.drawn++

	return v
}

func (g *xoshiroGenerator) Clone() Generator {
	state := g.x.State()
	x, _ := rng.NewXoshiro256SS(state[:])

	return &xoshiroGenerator{x: x, seed: g.seed, drawn: g.drawn}
}

func (g *xoshiroGenerator) Checkpoint() Descriptor {
	return Descriptor{
		Kind:  KindXoshiro256SS,
		Seed:  g.seed,
		State: g.x.String(),
		Drawn: g.drawn,
	}
}
