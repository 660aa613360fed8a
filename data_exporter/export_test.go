package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xor-shift/rngkit/common"
)

func build(t *testing.T, desc common.Descriptor) common.Generator {
	t.Helper()

	gen, err := desc.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	return gen
}

func values(rows []Row) []string {
	ret := make([]string, len(rows))
	for i, row := range rows {
		ret[i] = row.Value
	}

	return ret
}

func TestGenerateModes(t *testing.T) {
	tcs := []struct {
		mode  string
		bound uint64
		want  []string
	}{
		{mode: "word", want: []string{"2205006796", "3208168527", "586715585"}},
		{mode: "double", want: []string{"0.5133931516933704", "0.746959943265412", "0.13660536732911258"}},
		{mode: "bounded", bound: 100, want: []string{"51", "74", "13"}},
		{mode: "int", bound: 6, want: []string{"3", "4", "0"}},
		{mode: "bytes", want: []string{"130", "190", "34"}},
		{mode: "coarse", want: []string{"513393151693", "746959943265", "136605367329"}},
	}

	for _, tc := range tcs {
		t.Run(tc.mode, func(t *testing.T) {
			rows, err := generate(build(t, common.Descriptor{Kind: common.KindMT19937, Seed: 42}), tc.mode, tc.bound, 3)
			if err != nil {
				t.Fatalf("generate returned error: %v", err)
			}

			got := values(rows)
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("value %d = %s, want %s", i, got[i], tc.want[i])
				}
				if rows[i].Index != i {
					t.Fatalf("index %d = %d", i, rows[i].Index)
				}
			}
		})
	}
}

func TestGenerateRejectsMTOnlyModesForXoshiro(t *testing.T) {
	gen := build(t, common.Descriptor{Kind: common.KindXoshiro256SS, Seed: 1})

	for _, mode := range []string{"int", "bytes", "coarse"} {
		if _, err := generate(gen, mode, 10, 1); !errors.Is(err, errModeNeedsMT) {
			t.Fatalf("generate(%s) error = %v, want %v", mode, err, errModeNeedsMT)
		}
	}
}

func TestGenerateRejectsBadBounds(t *testing.T) {
	mt := build(t, common.Descriptor{Kind: common.KindMT19937, Seed: 1})

	if _, err := generate(mt, "bounded", 0, 1); err == nil {
		t.Fatalf("expected error for zero bound")
	}
	if _, err := generate(mt, "bounded", 1<<32, 1); err == nil {
		t.Fatalf("expected error for 33-bit bound")
	}
	if _, err := generate(mt, "int", 1<<31, 1); err == nil {
		t.Fatalf("expected error for bound past int32")
	}
	if _, err := generate(mt, "word", 0, -1); err == nil {
		t.Fatalf("expected error for negative count")
	}
	if _, err := generate(mt, "sample", 1, 1); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []Row{{Index: 0, Value: "11520"}, {Index: 1, Value: "0"}}

	if err := writeCSV(&buf, rows, true); err != nil {
		t.Fatalf("writeCSV returned error: %v", err)
	}
	if got, want := buf.String(), "Index,Value\n0,11520\n1,0\n"; got != want {
		t.Fatalf("csv = %q, want %q", got, want)
	}
}
