// Package stablehash provides the two 64-bit hash functions used for bucket
// assignment. Both are deterministic over byte sequences and independent of
// process, endianness and word size, so bucket indices can be persisted and
// reproduced on any machine.
//
//   - FarmHash64 is FarmHash Fingerprint64 (the farmhashna variant). It is the
//     fingerprint variant specifically: farm.Hash64 is free to change across
//     farmhash releases, Fingerprint64 is frozen.
//   - SipHash64 is SipHash-2-4 keyed with two 64-bit words.
package stablehash

import (
	"github.com/dchest/siphash"
	"github.com/dgryski/go-farm"
)

// Algorithm identifies the hash function used for bucketing.
type Algorithm uint8

const (
	// AlgoFarmHash64 is the fast, unkeyed hash. Used when no salt is configured.
	AlgoFarmHash64 Algorithm = 0

	// AlgoSipHash64 is the keyed strong hash. Used when a salt is configured.
	AlgoSipHash64 Algorithm = 1
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgoFarmHash64:
		return "farmhash64"
	case AlgoSipHash64:
		return "siphash64"
	default:
		return "unknown"
	}
}

// FarmHash64 returns the FarmHash Fingerprint64 of b.
func FarmHash64(b []byte) uint64 {
	return farm.Fingerprint64(b)
}

// SipHash64 returns the SipHash-2-4 of b keyed with (k0, k1).
func SipHash64(b []byte, k0, k1 uint64) uint64 {
	return siphash.Hash(k0, k1, b)
}

// Func is a hash function selected once at configuration time.
// The zero value is FarmHash64. Func is a small value type and safe for
// concurrent use.
type Func struct {
	algo   Algorithm
	k0, k1 uint64
}

// Fast returns the FarmHash64 function.
func Fast() Func {
	return Func{algo: AlgoFarmHash64}
}

// Strong returns SipHash64 keyed with (k0, k1).
func Strong(k0, k1 uint64) Func {
	return Func{algo: AlgoSipHash64, k0: k0, k1: k1}
}

// Algorithm returns which hash function f computes.
func (f Func) Algorithm() Algorithm {
	return f.algo
}

// Key returns the SipHash key. It is meaningless for AlgoFarmHash64.
func (f Func) Key() (k0, k1 uint64) {
	return f.k0, f.k1
}

// Sum64 hashes b with the selected function.
func (f Func) Sum64(b []byte) uint64 {
	if f.algo == AlgoSipHash64 {
		return siphash.Hash(f.k0, f.k1, b)
	}
	return farm.Fingerprint64(b)
}
