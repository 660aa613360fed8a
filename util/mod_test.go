package util

import (
	"errors"
	"strconv"
	"testing"
)

func TestRotL(t *testing.T) {
	if got := RotL(uint64(1), 7); got != 128 {
		t.Fatalf("RotL(1, 7) = %d, want 128", got)
	}
	if got := RotL(uint64(0x8000000000000000), 1); got != 1 {
		t.Fatalf("RotL(msb, 1) = %#x, want 1", got)
	}
	if got := RotL(uint32(0x80000001), 4); got != 0x18 {
		t.Fatalf("RotL(uint32) = %#x, want 0x18", got)
	}
}

func TestRotRUndoesRotL(t *testing.T) {
	x := uint64(0x0123456789abcdef)
	for k := uint(1); k < 64; k++ {
		if got := RotR(RotL(x, k), k); got != x {
			t.Fatalf("RotR(RotL(x, %d)) = %#x, want %#x", k, got, x)
		}
	}
}

func TestArrayToString(t *testing.T) {
	got := ArrayToString([]uint32{1, 0xdeadbeef})
	if want := "00000001deadbeef"; got != want {
		t.Fatalf("ArrayToString = %q, want %q", got, want)
	}
}

func TestParseHexArray(t *testing.T) {
	words := []uint64{0, 1, 0xc060100412050281, ^uint64(0)}

	got, err := ParseHexArray[uint64](ArrayToString(words))
	if err != nil {
		t.Fatalf("ParseHexArray returned error: %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("len = %d, want %d", len(got), len(words))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Fatalf("word %d = %#x, want %#x", i, got[i], words[i])
		}
	}
}

func TestParseHexArrayRejectsBadInput(t *testing.T) {
	if _, err := ParseHexArray[uint32]("0000000"); err == nil {
		t.Fatalf("expected error for truncated input")
	}

	_, err := ParseHexArray[uint32]("0000000g")
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("error = %v, want *strconv.NumError", err)
	}
}
