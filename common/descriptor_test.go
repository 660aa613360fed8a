package common

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/streadway/amqp"
	"github.com/xor-shift/rngkit/util/rng"
)

func decodeJSON(t *testing.T, body string) map[string]interface{} {
	t.Helper()

	var input map[string]interface{}
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("json.Unmarshal returned error: %v", err)
	}

	return input
}

func TestDecodeDescriptor(t *testing.T) {
	desc, err := DecodeDescriptor(decodeJSON(t, `{"kind": "mt19937", "seed": 42}`))
	if err != nil {
		t.Fatalf("DecodeDescriptor returned error: %v", err)
	}
	if desc.Kind != KindMT19937 || desc.Seed != 42 {
		t.Fatalf("descriptor = %+v, want mt19937 seeded with 42", desc)
	}
}

func TestDecodeDescriptorDefaultsKind(t *testing.T) {
	desc, err := DecodeDescriptor(decodeJSON(t, `{"seed": "18446744073709551615"}`))
	if err != nil {
		t.Fatalf("DecodeDescriptor returned error: %v", err)
	}
	if desc.Kind != KindXoshiro256SS {
		t.Fatalf("kind = %q, want %q", desc.Kind, KindXoshiro256SS)
	}
	if desc.Seed != ^uint64(0) {
		t.Fatalf("seed = %d, want max uint64", desc.Seed)
	}
}

func TestDecodeDescriptorRejectsUnknownFields(t *testing.T) {
	if _, err := DecodeDescriptor(decodeJSON(t, `{"kind": "mt19937", "sed": 1}`)); err == nil {
		t.Fatalf("expected error for misspelled field")
	}
}

func TestBuildFromSeed(t *testing.T) {
	g, err := Descriptor{Kind: KindMT19937, Seed: 1}.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got := g.NextWord(); got != 3796174982 {
		t.Fatalf("first mt19937 word = %d, want 3796174982", got)
	}

	g, err = Descriptor{Kind: KindXoshiro256SS, Seed: 0}.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got := g.NextWord(); got != 0x99ec5f36cb75f2b4 {
		t.Fatalf("first xoshiro256ss word = %#x, want 0x99ec5f36cb75f2b4", got)
	}
	if g.Drawn() != 1 {
		t.Fatalf("Drawn() = %d, want 1", g.Drawn())
	}
}

func TestBuildFromXoshiroState(t *testing.T) {
	desc := Descriptor{
		Kind:  KindXoshiro256SS,
		State: "0000000000000001000000000000000200000000000000030000000000000004",
	}

	g, err := desc.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got := g.NextWord(); got != 11520 {
		t.Fatalf("first word = %d, want 11520", got)
	}
}

func TestBuildRejectsBadDescriptors(t *testing.T) {
	tcs := []struct {
		name string
		desc Descriptor
		want error
	}{
		{name: "unknown kind", desc: Descriptor{Kind: "pcg32"}, want: ErrUnknownKind},
		{name: "short xoshiro state", desc: Descriptor{Kind: KindXoshiro256SS, State: strings.Repeat("0", 48)}, want: rng.ErrInvalidState},
		{name: "short mt state", desc: Descriptor{Kind: KindMT19937, State: strings.Repeat("0", 8*623)}, want: rng.ErrInvalidState},
		{name: "mt cursor", desc: Descriptor{Kind: KindMT19937, State: strings.Repeat("0", 8*624), Cursor: 700}, want: rng.ErrInvalidState},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.desc.Build(); !errors.Is(err, tc.want) {
				t.Fatalf("Build error = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := (Descriptor{Kind: KindMT19937, Seed: 1 << 32}).Build(); err == nil {
		t.Fatalf("expected error for a 33-bit mt19937 seed")
	}
}

func TestCheckpointResumesStream(t *testing.T) {
	for _, kind := range []string{KindMT19937, KindXoshiro256SS} {
		t.Run(kind, func(t *testing.T) {
			g, err := Descriptor{Kind: kind, Seed: 7}.Build()
			if err != nil {
				t.Fatalf("Build returned error: %v", err)
			}
			for i := 0; i < 700; i++ {
				g.NextWord()
			}

			checkpoint := g.Checkpoint()
			if checkpoint.Drawn != 700 {
				t.Fatalf("checkpoint drawn = %d, want 700", checkpoint.Drawn)
			}

			resumed, err := checkpoint.Build()
			if err != nil {
				t.Fatalf("Build from checkpoint returned error: %v", err)
			}
			clone := g.Clone()
			if clone.Drawn() != 700 {
				t.Fatalf("clone drawn = %d, want 700", clone.Drawn())
			}

			for i := 0; i < 10; i++ {
				want := g.NextWord()
				if got := resumed.NextWord(); got != want {
					t.Fatalf("resumed word %d = %d, want %d", i, got, want)
				}
				if got := clone.NextWord(); got != want {
					t.Fatalf("cloned word %d = %d, want %d", i, got, want)
				}
			}
			if g.Drawn() != 710 || clone.Drawn() != 710 {
				t.Fatalf("drawn = %d (clone %d), want 710", g.Drawn(), clone.Drawn())
			}
			if resumed.Drawn() != 710 {
				t.Fatalf("resumed drawn = %d, want 710", resumed.Drawn())
			}
		})
	}
}

func TestMTGeneratorBoundedRejectsWideBound(t *testing.T) {
	g, _ := Descriptor{Kind: KindMT19937, Seed: 1}.Build()

	defer func() {
		if recover() == nil {
			t.Fatalf("NextWordBounded(2^32) did not panic")
		}
		if g.Drawn() != 0 {
			t.Fatalf("Drawn() = %d after a rejected draw", g.Drawn())
		}
	}()
	g.NextWordBounded(1 << 32)
}

func TestDrawBatchGobRoundTrip(t *testing.T) {
	batch := DrawBatch{
		SessionID: 3,
		Kind:      KindXoshiro256SS,
		Draws:     []Draw{{Sequence: 0, Word: 11520}, {Sequence: 4, Word: ^uint64(0)}},
	}

	body, err := EncodeDrawBatch(batch)
	if err != nil {
		t.Fatalf("EncodeDrawBatch returned error: %v", err)
	}

	got, err := ParseDrawBatch(&amqp.Delivery{Body: body})
	if err != nil {
		t.Fatalf("ParseDrawBatch returned error: %v", err)
	}
	if got.SessionID != 3 || got.Kind != batch.Kind || len(got.Draws) != 2 || got.Draws[1] != batch.Draws[1] {
		t.Fatalf("decoded batch = %+v, want %+v", got, batch)
	}

	if _, err := ParseDrawBatch(&amqp.Delivery{Body: []byte("not gob")}); err == nil {
		t.Fatalf("expected error for garbage body")
	}
}
