// Package bits provides the bucket reduction primitives.
package bits

// Reduce maps a 64-bit hash to [0, n) by taking hash mod n.
// Persisted bucket assignments depend on the exact remainder, so this is
// plain modulo, not multiply-shift range reduction.
// n=0 returns 0.
func Reduce(hash uint64, n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return uint32(hash % uint64(n))
}

// MaskedReduce maps a hash to [1, numBins) when bucket 0 is reserved for the
// mask value. With numBins <= 1 there is no room to reserve anything and the
// result is 0, the same bucket the mask value itself maps to.
func MaskedReduce(hash uint64, numBins uint32) uint32 {
	if numBins <= 1 {
		return 0
	}
	return Reduce(hash, numBins-1) + 1
}
