package hashbin

import (
	"io"
	"log/slog"
)

// Option is a functional option for configuring a Hasher.
type Option func(*hasherConfig)

type hasherConfig struct {
	mask    *Scalar
	salt    []uint64 // nil means fast hash
	workers int
	logger  *slog.Logger
}

func defaultHasherConfig() *hasherConfig {
	return &hasherConfig{
		workers: 0, // Sequential by default; use WithWorkers(n) to parallelize
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithMask reserves bucket 0 for inputs equal to v.
// Real values then hash into buckets [1, numBins). The mask value is not
// supported by Cross.
func WithMask(v Scalar) Option {
	return func(c *hasherConfig) {
		c.mask = &v
	}
}

// WithSalt switches the hasher to the keyed strong hash (SipHash64).
// Pass a single value s (shorthand for [s, s]) or exactly two values.
// Any other count fails New with ErrInvalidSalt.
// The values are copied, so the caller can reuse the slice after this call.
func WithSalt(vals ...uint64) Option {
	return func(c *hasherConfig) {
		c.salt = append([]uint64{}, vals...)
	}
}

// WithKey switches the hasher to the keyed strong hash with key k.
func WithKey(k HashKey) Option {
	return func(c *hasherConfig) {
		c.salt = k.Salt()
	}
}

// WithWorkers sets the number of goroutines used by HashColumnContext and
// CrossContext. 0 or 1 runs on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *hasherConfig) {
		c.workers = n
	}
}

// WithLogger configures structured logging. The hasher only logs at Debug
// level. A nil logger keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *hasherConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
