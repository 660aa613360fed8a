package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/xor-shift/rngkit/common"
	"github.com/xor-shift/rngkit/util/rng"
)

var errModeNeedsMT = errors.New("mode is only available for mt19937")

type mtBacked interface {
	MersenneTwister() *rng.MersenneTwister
}

type Row struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

func generate(gen common.Generator, mode string, bound uint64, count int) ([]Row, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}

	if (mode == "bounded" || mode == "int") && bound == 0 {
		return nil, errors.New("bound must be positive")
	}

	rows := make([]Row, 0, count)
	push := func(v string) { rows = append(rows, Row{Index: len(rows), Value: v}) }

	var mt *rng.MersenneTwister
	switch mode {
	case "int", "bytes", "coarse":
		backed, ok := gen.(mtBacked)
		if !ok {
			return nil, fmt.Errorf("%s: %w", mode, errModeNeedsMT)
		}
		mt = backed.MersenneTwister()
	}

	switch mode {
	case "word":
		for i := 0; i < count; i++ {
			push(strconv.FormatUint(gen.NextWord(), 10))
		}
	case "double":
		for i := 0; i < count; i++ {
			push(strconv.FormatFloat(gen.NextDouble(), 'g', -1, 64))
		}
	case "bounded":
		if gen.Kind() == common.KindMT19937 && bound > math.MaxUint32 {
			return nil, fmt.Errorf("bound %d does not fit in 32 bits", bound)
		}
		for i := 0; i < count; i++ {
			push(strconv.FormatUint(gen.NextWordBounded(bound), 10))
		}
	case "int":
		if bound > math.MaxInt32 {
			return nil, fmt.Errorf("bound %d does not fit in a signed 32-bit integer", bound)
		}
		for i := 0; i < count; i++ {
			push(strconv.FormatInt(int64(mt.NextIntBounded(int32(bound))), 10))
		}
	case "bytes":
		for _, b := range mt.NextBytes(count) {
			push(strconv.Itoa(int(b)))
		}
	case "coarse":
		for i := 0; i < count; i++ {
			push(strconv.FormatUint(mt.NextCoarseUint64(), 10))
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	return rows, nil
}
