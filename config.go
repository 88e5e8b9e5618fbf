package hashbin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"sigs.k8s.io/yaml"

	hasherrors "github.com/tamirms/hashbin/errors"
	"github.com/tamirms/hashbin/internal/stablehash"
)

// Config is the persisted form of a Hasher: {num_bins, mask_value, salt}.
//
// Salt is nil for the fast hash. A Hasher built from a Config reports the
// same Config, so the triple round-trips exactly through YAML, JSON and the
// binary encoding.
type Config struct {
	NumBins   int     `json:"num_bins"`
	MaskValue *Scalar `json:"mask_value,omitempty"`
	Salt      Salt    `json:"salt,omitempty"`
}

// Salt is a persisted salt. In YAML or JSON it may be written as a single
// integer (shorthand for [s, s]) or as a list.
type Salt []uint64

// UnmarshalJSON accepts an unsigned integer or a list of unsigned integers.
func (s *Salt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var vals []uint64
		if err := json.Unmarshal(data, &vals); err != nil {
			return fmt.Errorf("%w: %v", hasherrors.ErrInvalidSalt, err)
		}
		*s = vals
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", hasherrors.ErrInvalidSalt, data)
	}
	*s = Salt{v}
	return nil
}

// Config returns the persisted configuration of h.
func (h *Hasher) Config() Config {
	cfg := Config{NumBins: int(h.numBins)}
	if h.hasMask {
		m := h.mask
		cfg.MaskValue = &m
	}
	if h.fn.Algorithm() == stablehash.AlgoSipHash64 {
		cfg.Salt = h.key.Salt()
	}
	return cfg
}

// Validate checks the configuration without building a Hasher.
func (c Config) Validate() error {
	if c.NumBins <= 0 || uint64(c.NumBins) > math.MaxUint32 {
		return fmt.Errorf("%w: got %d", hasherrors.ErrInvalidNumBins, c.NumBins)
	}
	if c.Salt != nil {
		if _, err := keyFromSalt(c.Salt); err != nil {
			return err
		}
	}
	return nil
}

// FromConfig builds a Hasher from a persisted configuration. opts are
// applied after the configuration, so they can set workers or a logger.
func FromConfig(cfg Config, opts ...Option) (*Hasher, error) {
	base := make([]Option, 0, 2+len(opts))
	if cfg.MaskValue != nil {
		base = append(base, WithMask(*cfg.MaskValue))
	}
	if cfg.Salt != nil {
		base = append(base, WithSalt(cfg.Salt...))
	}
	return New(cfg.NumBins, append(base, opts...)...)
}

// YAML encodes c as YAML. YAML text must be UTF-8, so a string mask that is
// not valid UTF-8 is rejected with ErrInvalidMask; MarshalBinary keeps such
// masks byte for byte.
func (c Config) YAML() ([]byte, error) {
	if m := c.MaskValue; m != nil && m.IsString() && !utf8.ValidString(m.String()) {
		return nil, fmt.Errorf("%w: %q is not valid UTF-8", hasherrors.ErrInvalidMask, m.String())
	}
	return yaml.Marshal(c)
}

// ParseConfig decodes and validates a YAML or JSON configuration.
// Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", hasherrors.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
