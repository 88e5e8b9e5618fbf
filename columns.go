package hashbin

import (
	"fmt"
	"math"

	hasherrors "github.com/tamirms/hashbin/errors"
)

// Coord is a (row, col) coordinate of a sparse entry.
type Coord [2]int64

// Shape is the (num_rows, num_cols) dense shape of a sparse matrix.
type Shape [2]int64

// Column is one logical input column for Cross. It is implemented by
// *DenseColumn, *SparseMatrix and *RaggedColumn only.
type Column interface {
	// NumRows returns the number of logical rows (the batch size).
	NumRows() int

	validate() error
}

// DenseColumn is a rectangular Rows x Width column stored row-major.
type DenseColumn struct {
	Rows   int
	Width  int
	Values []Scalar
}

// NewDenseColumn builds a DenseColumn from per-row slices. All rows must have
// the same length.
func NewDenseColumn(rows [][]Scalar) (*DenseColumn, error) {
	d := &DenseColumn{Rows: len(rows)}
	if len(rows) > 0 {
		d.Width = len(rows[0])
	}
	d.Values = make([]Scalar, 0, d.Rows*d.Width)
	for i, r := range rows {
		if len(r) != d.Width {
			return nil, fmt.Errorf("%w: dense row %d has %d values, want %d",
				hasherrors.ErrShapeMismatch, i, len(r), d.Width)
		}
		d.Values = append(d.Values, r...)
	}
	return d, nil
}

// DenseFromColumn builds a Width=1 column, one value per row.
func DenseFromColumn(vals []Scalar) *DenseColumn {
	return &DenseColumn{Rows: len(vals), Width: 1, Values: vals}
}

// NumRows returns d.Rows.
func (d *DenseColumn) NumRows() int { return d.Rows }

// Row returns the values of row i.
func (d *DenseColumn) Row(i int) []Scalar {
	return d.Values[i*d.Width : (i+1)*d.Width]
}

func (d *DenseColumn) validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil dense column", hasherrors.ErrShapeMismatch)
	}
	if d.Rows < 0 || d.Width < 0 {
		return fmt.Errorf("%w: negative dense shape (%d, %d)", hasherrors.ErrShapeMismatch, d.Rows, d.Width)
	}
	if d.Width > 0 && d.Rows > math.MaxInt/d.Width {
		return fmt.Errorf("%w: dense shape (%d, %d) overflows", hasherrors.ErrShapeMismatch, d.Rows, d.Width)
	}
	if len(d.Values) != d.Rows*d.Width {
		return fmt.Errorf("%w: dense column has %d values, want %d x %d",
			hasherrors.ErrShapeMismatch, len(d.Values), d.Rows, d.Width)
	}
	return nil
}

// SparseMatrix is a sparse column in coordinate form. Indices and Values are
// aligned; Indices need not be sorted.
type SparseMatrix struct {
	Indices []Coord
	Values  []Scalar
	Shape   Shape
}

// NumRows returns Shape[0].
func (s *SparseMatrix) NumRows() int { return int(s.Shape[0]) }

func (s *SparseMatrix) validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil sparse matrix", hasherrors.ErrInvalidSparse)
	}
	if len(s.Indices) != len(s.Values) {
		return fmt.Errorf("%w: %d indices but %d values",
			hasherrors.ErrInvalidSparse, len(s.Indices), len(s.Values))
	}
	if s.Shape[0] < 0 || s.Shape[1] < 0 {
		return fmt.Errorf("%w: negative dense_shape %v", hasherrors.ErrInvalidSparse, s.Shape)
	}
	for i, c := range s.Indices {
		if c[0] < 0 || c[0] >= s.Shape[0] || c[1] < 0 || c[1] >= s.Shape[1] {
			return fmt.Errorf("%w: index %d %v outside dense_shape %v",
				hasherrors.ErrInvalidSparse, i, c, s.Shape)
		}
	}
	return nil
}

// RaggedColumn is a column with a variable number of values per row.
// Row i holds Values[RowSplits[i]:RowSplits[i+1]].
type RaggedColumn struct {
	RowSplits []int
	Values    []Scalar
}

// NumRows returns len(RowSplits)-1.
func (r *RaggedColumn) NumRows() int {
	if len(r.RowSplits) == 0 {
		return 0
	}
	return len(r.RowSplits) - 1
}

func (r *RaggedColumn) validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil ragged column", hasherrors.ErrInvalidRagged)
	}
	if len(r.RowSplits) == 0 {
		if len(r.Values) != 0 {
			return fmt.Errorf("%w: values without row splits", hasherrors.ErrInvalidRagged)
		}
		return nil
	}
	if r.RowSplits[0] != 0 {
		return fmt.Errorf("%w: row splits must start at 0", hasherrors.ErrInvalidRagged)
	}
	for i := 1; i < len(r.RowSplits); i++ {
		if r.RowSplits[i] < r.RowSplits[i-1] {
			return fmt.Errorf("%w: row splits decrease at %d", hasherrors.ErrInvalidRagged, i)
		}
	}
	if last := r.RowSplits[len(r.RowSplits)-1]; last != len(r.Values) {
		return fmt.Errorf("%w: row splits end at %d but there are %d values",
			hasherrors.ErrInvalidRagged, last, len(r.Values))
	}
	return nil
}

// DenseBuckets is a dense Rows x Width matrix of bucket indices, row-major.
type DenseBuckets struct {
	Rows   int
	Width  int
	Values []uint32
}

// Row returns the buckets of row i.
func (d *DenseBuckets) Row(i int) []uint32 {
	return d.Values[i*d.Width : (i+1)*d.Width]
}

// SparseBuckets is a sparse matrix of bucket indices in coordinate form.
type SparseBuckets struct {
	Indices []Coord
	Values  []uint32
	Shape   Shape
}

// ToDense materializes s. Coordinates with no entry are 0.
func (s *SparseBuckets) ToDense() *DenseBuckets {
	d := &DenseBuckets{
		Rows:   int(s.Shape[0]),
		Width:  int(s.Shape[1]),
		Values: make([]uint32, s.Shape[0]*s.Shape[1]),
	}
	for i, c := range s.Indices {
		d.Values[c[0]*s.Shape[1]+c[1]] = s.Values[i]
	}
	return d
}

// RaggedBuckets mirrors a RaggedColumn with bucket indices as values.
type RaggedBuckets struct {
	RowSplits []int
	Values    []uint32
}

// Row returns the buckets of row i.
func (r *RaggedBuckets) Row(i int) []uint32 {
	return r.Values[r.RowSplits[i]:r.RowSplits[i+1]]
}
