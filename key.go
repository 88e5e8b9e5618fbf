package hashbin

import (
	"fmt"

	hasherrors "github.com/tamirms/hashbin/errors"
)

// HashKey is the 128-bit SipHash key, stored as two 64-bit words.
type HashKey [2]uint64

// DefaultKey is the key reported by hashers that use the fast hash.
var DefaultKey = HashKey{0xDECAFCAFFE, 0xDECAFCAFFE}

// keyFromSalt validates a salt and expands it to a HashKey.
// A single value s is shorthand for (s, s).
func keyFromSalt(salt []uint64) (HashKey, error) {
	switch len(salt) {
	case 1:
		return HashKey{salt[0], salt[0]}, nil
	case 2:
		return HashKey{salt[0], salt[1]}, nil
	}
	return HashKey{}, fmt.Errorf("%w: got %d values", hasherrors.ErrInvalidSalt, len(salt))
}

// Salt returns the key as a two-element slice, the persisted form.
func (k HashKey) Salt() []uint64 {
	return []uint64{k[0], k[1]}
}
