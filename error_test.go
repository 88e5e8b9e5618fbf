package hashbin

import (
	"errors"
	"testing"

	hasherrors "github.com/tamirms/hashbin/errors"
)

// ---------------------------------------------------------------------------
// Category 1: Sentinel taxonomy
// ---------------------------------------------------------------------------

func TestErrorCategories(t *testing.T) {
	configErrs := []error{
		hasherrors.ErrInvalidNumBins,
		hasherrors.ErrInvalidSalt,
		hasherrors.ErrInvalidMask,
		hasherrors.ErrInvalidWorkers,
		hasherrors.ErrInvalidConfig,
		hasherrors.ErrInvalidMagic,
		hasherrors.ErrInvalidVersion,
		hasherrors.ErrTruncatedConfig,
		hasherrors.ErrChecksumFailed,
	}
	inputErrs := []error{
		hasherrors.ErrRaggedCross,
		hasherrors.ErrMaskWithCross,
		hasherrors.ErrNoColumns,
		hasherrors.ErrShapeMismatch,
		hasherrors.ErrInvalidSparse,
		hasherrors.ErrInvalidRagged,
	}
	for _, err := range configErrs {
		if !errors.Is(err, hasherrors.ErrConfig) {
			t.Errorf("%v does not wrap ErrConfig", err)
		}
		if errors.Is(err, hasherrors.ErrUnsupportedInput) {
			t.Errorf("%v wraps ErrUnsupportedInput", err)
		}
	}
	for _, err := range inputErrs {
		if !errors.Is(err, hasherrors.ErrUnsupportedInput) {
			t.Errorf("%v does not wrap ErrUnsupportedInput", err)
		}
		if errors.Is(err, hasherrors.ErrConfig) {
			t.Errorf("%v wraps ErrConfig", err)
		}
	}
}

// ---------------------------------------------------------------------------
// Category 2: Construction errors are ConfigErrors
// ---------------------------------------------------------------------------

func TestConstructionErrorsAreConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		fn   func() error
	}{
		{"New", func() error { _, err := New(0); return err }},
		{"NewSalt", func() error { _, err := New(3, WithSalt()); return err }},
		{"FromConfig", func() error { _, err := FromConfig(Config{NumBins: -1}); return err }},
		{"ParseConfig", func() error { _, err := ParseConfig([]byte("num_bins: [")); return err }},
		{"UnmarshalBinary", func() error { var c Config; return c.UnmarshalBinary([]byte("HBIN")) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fn()
			if !errors.Is(err, hasherrors.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Category 3: Per-call errors are UnsupportedInputErrors with no output
// ---------------------------------------------------------------------------

func TestPerCallErrorsProduceNoOutput(t *testing.T) {
	h := mustNew(t, 10)
	ragged := &RaggedColumn{RowSplits: []int{0, 1}, Values: Strings("a")}
	res, err := h.Cross(DenseFromColumn(Strings("x")), ragged)
	if !errors.Is(err, hasherrors.ErrUnsupportedInput) {
		t.Errorf("expected ErrUnsupportedInput, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no output, got %+v", res)
	}

	sp, err := h.HashSparse(&SparseMatrix{Indices: []Coord{{5, 0}}, Values: Strings("a"), Shape: Shape{1, 1}})
	if !errors.Is(err, hasherrors.ErrUnsupportedInput) {
		t.Errorf("expected ErrUnsupportedInput, got %v", err)
	}
	if sp != nil {
		t.Errorf("expected no output, got %+v", sp)
	}
}
