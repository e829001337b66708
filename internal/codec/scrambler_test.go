package codec

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

func TestScrambleKnownSequence(t *testing.T) {
	// Scrambling all-zero bytes exposes the raw scrambler sequence.
	// Verified against the reference C implementation.
	block := make([]byte, 8)
	expected := []byte{0xC0, 0x6F, 0x10, 0x2C, 0x0C, 0x1D, 0xC5, 0xC9}

	Scramble(block)
	if !bytes.Equal(block, expected) {
		t.Errorf("Scramble(zeros) = %X, want %X", block, expected)
	}
}

func TestScrambleIsSelfInverse(t *testing.T) {
	tests := []struct {
		name  string
		block []byte
	}{
		{name: "zeros", block: make([]byte, 43)},
		{name: "ones", block: bytes.Repeat([]byte{0xFF}, 63)},
		{name: "pattern", block: []byte{0x24, 0x24, 0xDE, 0xAD, 0xBE, 0xEF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]byte(nil), tt.block...)

			Scramble(tt.block)
			Scramble(tt.block)

			if !bytes.Equal(tt.block, original) {
				t.Errorf("double Scramble() = %X, want %X", tt.block, original)
			}
		})
	}
}

func TestScrambleBreaksRuns(t *testing.T) {
	// The whole point of whitening: a run of identical bits must not
	// survive scrambling. A v1-sized all-zero block would otherwise
	// transmit 344 zero bits in a row.
	block := make([]byte, 43)
	Scramble(block)

	maxRun, run := 0, 0
	var last uint8 = 2
	for i := 0; i < len(block)*8; i++ {
		b := getBitLSB(block, i)
		if b == last {
			run++
		} else {
			run = 1
			last = b
		}
		if run > maxRun {
			maxRun = run
		}
	}

	if maxRun > 16 {
		t.Errorf("longest run after scrambling = %d bits, expected short runs", maxRun)
	}
}

func TestScrambleRestartsPerBlock(t *testing.T) {
	// The register reloads at the start of every block, so two blocks with
	// identical content scramble identically
	a := []byte{0x11, 0x22, 0x33, 0x44}
	b := []byte{0x11, 0x22, 0x33, 0x44}

	Scramble(a)
	Scramble(b)

	if !bytes.Equal(a, b) {
		t.Errorf("Scramble() not deterministic across blocks: %X != %X", a, b)
	}
}

func TestScrambleRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		block := rapid.SliceOfN(rapid.Byte(), 0, 128).Draw(t, "block")

		original := append([]byte(nil), block...)
		Scramble(block)
		Scramble(block)

		if !bytes.Equal(block, original) {
			t.Fatalf("round trip mismatch: %X != %X", block, original)
		}
	})
}

func BenchmarkScramble(b *testing.B) {
	block := make([]byte, 43)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Scramble(block)
	}
}
