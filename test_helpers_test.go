package hashbin

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a PCG seeded from the test name, so every test gets its
// own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomScalars returns n values, roughly half strings and half integers.
func randomScalars(rng *rand.Rand, n int) []Scalar {
	vals := make([]Scalar, n)
	for i := range vals {
		if rng.IntN(2) == 0 {
			vals[i] = Int(rng.Int64() - rng.Int64())
		} else {
			vals[i] = String("v" + strconv.FormatUint(rng.Uint64N(1<<20), 36))
		}
	}
	return vals
}

// mustNew is New that fails the test on error.
func mustNew(t testing.TB, numBins int, opts ...Option) *Hasher {
	t.Helper()
	h, err := New(numBins, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", numBins, err)
	}
	return h
}

func assertBuckets(t testing.TB, name string, got, want []uint32) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}
