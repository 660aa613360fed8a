package common

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/xor-shift/rngkit/util"
	"github.com/xor-shift/rngkit/util/rng"
)

const (
	KindMT19937      = "mt19937"
	KindXoshiro256SS = "xoshiro256ss"
)

var ErrUnknownKind = errors.New("unknown generator kind")

// Descriptor is enough information to rebuild a generator at a given point of its stream.
// State holds the hex-encoded state words (see util.ArrayToString); when it is empty the
// generator is rebuilt from Seed.
type Descriptor struct {
	Kind   string `json:"kind" mapstructure:"kind"`
	Seed   uint64 `json:"seed" mapstructure:"seed"`
	State  string `json:"state,omitempty" mapstructure:"state"`
	Cursor int    `json:"cursor,omitempty" mapstructure:"cursor"`
	Drawn  uint   `json:"drawn" mapstructure:"drawn"`
}

// DecodeDescriptor decodes an untyped JSON object, as produced by encoding/json, into a Descriptor.
func DecodeDescriptor(input map[string]interface{}) (desc Descriptor, err error) {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &desc,
	})
	if err != nil {
		return
	}

	if err = decoder.Decode(input); err != nil {
		return
	}

	if desc.Kind == "" {
		desc.Kind = KindXoshiro256SS
	}

	return
}

// Build reconstructs the generator described by desc.
func (desc Descriptor) Build() (Generator, error) {
	switch desc.Kind {
	case KindMT19937:
		if desc.Seed > 0xFFFFFFFF {
			return nil, fmt.Errorf("%s seed %d does not fit in 32 bits", desc.Kind, desc.Seed)
		}

		mt := rng.NewMersenneTwister(uint32(desc.Seed))
		if desc.State == "" {
			return &mtGenerator{mt: mt, drawn: desc.Drawn}, nil
		}

		words, err := util.ParseHexArray[uint32](desc.State)
		if err != nil {
			return nil, fmt.Errorf("%s state: %w", desc.Kind, err)
		}

		state := rng.MTState{Cursor: desc.Cursor, Seed: uint32(desc.Seed)}
		if len(words) != len(state.Words) {
			return nil, fmt.Errorf("%w: %s wants %d words, got %d", rng.ErrInvalidState, desc.Kind, len(state.Words), len(words))
		}
		copy(state.Words[:], words)

		if err = mt.Restore(state); err != nil {
			return nil, err
		}

		return &mtGenerator{mt: mt, drawn: desc.Drawn}, nil

	case KindXoshiro256SS:
		if desc.State == "" {
			return &xoshiroGenerator{x: rng.NewXoshiro256SSFromSeed(desc.Seed), seed: desc.Seed, drawn: desc.Drawn}, nil
		}

		words, err := util.ParseHexArray[uint64](desc.State)
		if err != nil {
			return nil, fmt.Errorf("%s state: %w", desc.Kind, err)
		}

		x, err := rng.NewXoshiro256SS(words)
		if err != nil {
			return nil, err
		}

		return &xoshiroGenerator{x: x, seed: desc.Seed, drawn: desc.Drawn}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, desc.Kind)
}
