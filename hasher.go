package hashbin

import (
	"fmt"
	"log/slog"
	"math"

	hasherrors "github.com/tamirms/hashbin/errors"
	"github.com/tamirms/hashbin/internal/bits"
	"github.com/tamirms/hashbin/internal/stablehash"
)

// Hasher maps categorical values to bucket indices in [0, NumBins()).
//
// Thread Safety:
// A Hasher is immutable after New returns. All methods are safe for
// concurrent use.
type Hasher struct {
	numBins uint32

	// Mask handling. When hasMask is set, inputs equal to mask go to bucket 0
	// and everything else to [1, numBins).
	mask    Scalar
	hasMask bool

	fn  stablehash.Func
	key HashKey // DefaultKey for the fast hash

	workers int
	logger  *slog.Logger
}

// New creates a Hasher with numBins buckets.
//
// numBins counts the mask bucket, so with WithMask only numBins-1 buckets
// are available to real values. A mask with numBins == 1 is valid but
// degenerate: every input, masked or not, lands in bucket 0.
//
// Returns an error wrapping ErrConfig if numBins is not in [1, 2^32-1] or
// the salt does not have 1 or 2 values.
func New(numBins int, opts ...Option) (*Hasher, error) {
	if numBins <= 0 || uint64(numBins) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: got %d", hasherrors.ErrInvalidNumBins, numBins)
	}

	cfg := defaultHasherConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.workers < 0 {
		return nil, fmt.Errorf("%w: got %d", hasherrors.ErrInvalidWorkers, cfg.workers)
	}

	h := &Hasher{
		numBins: uint32(numBins),
		fn:      stablehash.Fast(),
		key:     DefaultKey,
		workers: cfg.workers,
		logger:  cfg.logger,
	}
	if cfg.salt != nil {
		key, err := keyFromSalt(cfg.salt)
		if err != nil {
			return nil, err
		}
		h.key = key
		h.fn = stablehash.Strong(key[0], key[1])
	}
	if cfg.mask != nil {
		h.mask = *cfg.mask
		h.hasMask = true
	}

	h.logger.Debug("hasher configured",
		"num_bins", h.numBins,
		"algorithm", h.fn.Algorithm().String(),
		"masked", h.hasMask,
		"workers", h.workers)
	return h, nil
}

// NumBins returns the total number of buckets, including the mask bucket.
func (h *Hasher) NumBins() uint32 { return h.numBins }

// Algorithm returns the configured hash function.
func (h *Hasher) Algorithm() stablehash.Algorithm { return h.fn.Algorithm() }

// Key returns the SipHash key. For the fast hash this is DefaultKey.
func (h *Hasher) Key() HashKey { return h.key }

// Mask returns the mask value, if one is configured.
func (h *Hasher) Mask() (Scalar, bool) { return h.mask, h.hasMask }

// Hash returns the bucket of a single value.
func (h *Hasher) Hash(v Scalar) uint32 {
	var buf [32]byte
	return h.hashInto(v, buf[:0])
}

// HashString returns the bucket of a string value.
func (h *Hasher) HashString(s string) uint32 { return h.Hash(String(s)) }

// HashInt returns the bucket of an integer value.
func (h *Hasher) HashInt(i int64) uint32 { return h.Hash(Int(i)) }

// hashInto hashes v using scratch as the encoding buffer.
func (h *Hasher) hashInto(v Scalar, scratch []byte) uint32 {
	if h.hasMask {
		if v.Equal(h.mask) {
			return 0
		}
		return bits.MaskedReduce(h.fn.Sum64(v.AppendBytes(scratch)), h.numBins)
	}
	return bits.Reduce(h.fn.Sum64(v.AppendBytes(scratch)), h.numBins)
}

// hashRange writes the buckets of vals into dst, which must have len(vals).
func (h *Hasher) hashRange(dst []uint32, vals []Scalar) {
	scratch := make([]byte, 0, 64)
	for i, v := range vals {
		dst[i] = h.hashInto(v, scratch)
	}
}

// HashColumn returns one bucket per value, in input order.
func (h *Hasher) HashColumn(vals []Scalar) []uint32 {
	out := make([]uint32, len(vals))
	h.hashRange(out, vals)
	return out
}

// HashStrings returns one bucket per string.
func (h *Hasher) HashStrings(vals []string) []uint32 {
	out := make([]uint32, len(vals))
	scratch := make([]byte, 0, 64)
	for i, s := range vals {
		out[i] = h.hashInto(String(s), scratch)
	}
	return out
}

// HashInts returns one bucket per integer.
func (h *Hasher) HashInts(vals []int64) []uint32 {
	out := make([]uint32, len(vals))
	scratch := make([]byte, 0, 20)
	for i, v := range vals {
		out[i] = h.hashInto(Int(v), scratch)
	}
	return out
}

// HashDense hashes every value of d, keeping its shape.
func (h *Hasher) HashDense(d *DenseColumn) (*DenseBuckets, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &DenseBuckets{
		Rows:   d.Rows,
		Width:  d.Width,
		Values: h.HashColumn(d.Values),
	}, nil
}

// HashSparse hashes the values of s. Indices and Shape are copied unchanged.
func (h *Hasher) HashSparse(s *SparseMatrix) (*SparseBuckets, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &SparseBuckets{
		Indices: append([]Coord(nil), s.Indices...),
		Values:  h.HashColumn(s.Values),
		Shape:   s.Shape,
	}, nil
}

// HashRagged hashes the values of r. RowSplits are copied unchanged.
// Unlike Cross, single-column hashing accepts ragged input.
func (h *Hasher) HashRagged(r *RaggedColumn) (*RaggedBuckets, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &RaggedBuckets{
		RowSplits: append([]int(nil), r.RowSplits...),
		Values:    h.HashColumn(r.Values),
	}, nil
}
