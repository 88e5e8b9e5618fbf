package hashbin

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"

	hasherrors "github.com/tamirms/hashbin/errors"
	"github.com/tamirms/hashbin/internal/bits"
)

// CrossResult holds the output of Cross. Exactly one field is set: Dense when
// every input column was dense, Sparse otherwise.
type CrossResult struct {
	Dense  *DenseBuckets
	Sparse *SparseBuckets
}

// IsDense reports whether the result is dense.
func (r *CrossResult) IsDense() bool { return r.Dense != nil }

// crossColumn is one input column regrouped by row.
// Row i holds vals[splits[i]:splits[i+1]].
type crossColumn struct {
	splits []int
	vals   []Scalar
}

func (c *crossColumn) row(i int) []Scalar {
	return c.vals[c.splits[i]:c.splits[i+1]]
}

// crossPlan is validated, row-grouped input ready for per-row hashing.
// Columns are grouped by slot. When rowIDs is nil slot i is row i and there
// is one slot per row; otherwise slot i is row rowIDs[i] and only rows that
// hold at least one value have a slot.
type crossPlan struct {
	rows     int
	slots    int
	rowIDs   []int64
	cols     []crossColumn
	allDense bool
}

// row returns the row index of slot i.
func (p *crossPlan) row(i int) int64 {
	if p.rowIDs == nil {
		return int64(i)
	}
	return p.rowIDs[i]
}

// Cross combines the columns row by row into one joint bucket per value
// combination.
//
// For each row, every combination of one value from each column that has at
// least one value in that row is encoded, hashed and reduced to [0, NumBins()).
// Combinations are enumerated with the last column varying fastest. A row
// where no column has a value produces no output.
//
// If every column is dense the result is dense with Width equal to the
// product of the column widths. Otherwise the result is sparse; an entry's
// column coordinate is its combination index within the row and Shape[1] is
// the largest number of combinations in any row.
//
// Ragged columns and a configured mask value are rejected with an error
// wrapping ErrUnsupportedInput and no output.
func (h *Hasher) Cross(cols ...Column) (*CrossResult, error) {
	return h.cross(context.Background(), cols, 1)
}

// CrossContext is Cross with rows partitioned across WithWorkers goroutines.
// It returns ctx.Err() if ctx is cancelled before all rows are hashed.
func (h *Hasher) CrossContext(ctx context.Context, cols ...Column) (*CrossResult, error) {
	return h.cross(ctx, cols, h.workers)
}

func (h *Hasher) cross(ctx context.Context, cols []Column, workers int) (*CrossResult, error) {
	plan, err := h.planCross(cols)
	if err != nil {
		return nil, err
	}

	perRow := make([][]uint32, plan.slots)
	err = runChunked(ctx, plan.slots, workers, func(lo, hi int) {
		var enc, val []byte
		idx := make([]int, len(plan.cols))
		active := make([][]Scalar, 0, len(plan.cols))
		activeCol := make([]int, 0, len(plan.cols))
		for r := lo; r < hi; r++ {
			active, activeCol = active[:0], activeCol[:0]
			for c := range plan.cols {
				if vals := plan.cols[c].row(r); len(vals) > 0 {
					active = append(active, vals)
					activeCol = append(activeCol, c)
				}
			}
			perRow[r], enc, val = h.crossRow(active, activeCol, idx, enc, val)
		}
	})
	if err != nil {
		return nil, err
	}

	res := assembleCross(plan, perRow)
	h.logger.Debug("crossed columns",
		"columns", len(cols),
		"rows", plan.rows,
		"hashed_rows", plan.slots,
		"dense", res.IsDense())
	return res, nil
}

// planCross validates the columns and regroups sparse entries by row.
func (h *Hasher) planCross(cols []Column) (*crossPlan, error) {
	if len(cols) == 0 {
		return nil, hasherrors.ErrNoColumns
	}
	for i, col := range cols {
		if _, ok := col.(*RaggedColumn); ok {
			return nil, fmt.Errorf("%w: column %d", hasherrors.ErrRaggedCross, i)
		}
	}
	if h.hasMask {
		return nil, fmt.Errorf("%w: mask_value is %q", hasherrors.ErrMaskWithCross, h.mask.String())
	}

	plan := &crossPlan{rows: -1, allDense: true, cols: make([]crossColumn, len(cols))}
	everyRow := false // some dense column puts a value in every row
	for i, col := range cols {
		if col == nil {
			return nil, fmt.Errorf("%w: column %d is nil", hasherrors.ErrUnsupportedInput, i)
		}
		if err := col.validate(); err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		if plan.rows == -1 {
			plan.rows = col.NumRows()
		} else if col.NumRows() != plan.rows {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d",
				hasherrors.ErrShapeMismatch, i, col.NumRows(), plan.rows)
		}

		switch c := col.(type) {
		case *DenseColumn:
			everyRow = everyRow || c.Width > 0
		case *SparseMatrix:
			plan.allDense = false
		default:
			return nil, fmt.Errorf("%w: column %d has type %T", hasherrors.ErrUnsupportedInput, i, col)
		}
	}

	// Without a non-empty dense column, work is bounded by the number of
	// entries rather than by dense_shape.
	if everyRow {
		plan.slots = plan.rows
	} else {
		plan.rowIDs = occupiedRows(cols)
		plan.slots = len(plan.rowIDs)
	}

	for i, col := range cols {
		switch c := col.(type) {
		case *DenseColumn:
			if c.Width == 0 {
				plan.cols[i] = crossColumn{splits: make([]int, plan.slots+1)}
			} else {
				plan.cols[i] = denseCrossColumn(c)
			}
		case *SparseMatrix:
			plan.cols[i] = sparseCrossColumn(c, plan.rowIDs, plan.slots)
		}
	}
	return plan, nil
}

// occupiedRows returns the sorted distinct rows holding a sparse entry.
func occupiedRows(cols []Column) []int64 {
	rows := []int64{}
	for _, col := range cols {
		if s, ok := col.(*SparseMatrix); ok {
			for _, c := range s.Indices {
				rows = append(rows, c[0])
			}
		}
	}
	slices.Sort(rows)
	return slices.Compact(rows)
}

func denseCrossColumn(d *DenseColumn) crossColumn {
	splits := make([]int, d.Rows+1)
	for r := range splits {
		splits[r] = r * d.Width
	}
	return crossColumn{splits: splits, vals: d.Values}
}

// sparseCrossColumn groups entries into slots with a counting sort. Entries
// keep their original relative order within a row. rowIDs maps slots to rows
// as in crossPlan.
func sparseCrossColumn(s *SparseMatrix, rowIDs []int64, slots int) crossColumn {
	slotOf := func(row int64) int {
		if rowIDs == nil {
			return int(row)
		}
		i, _ := slices.BinarySearch(rowIDs, row)
		return i
	}

	splits := make([]int, slots+1)
	for _, c := range s.Indices {
		splits[slotOf(c[0])+1]++
	}
	for i := 1; i <= slots; i++ {
		splits[i] += splits[i-1]
	}
	next := append([]int(nil), splits[:slots]...)
	vals := make([]Scalar, len(s.Values))
	for i, c := range s.Indices {
		slot := slotOf(c[0])
		vals[next[slot]] = s.Values[i]
		next[slot]++
	}
	return crossColumn{splits: splits, vals: vals}
}

// crossRow hashes every combination of the active columns of one row.
// idx, enc and val are scratch space reused across rows.
func (h *Hasher) crossRow(active [][]Scalar, activeCol []int, idx []int, enc, val []byte) ([]uint32, []byte, []byte) {
	if len(active) == 0 {
		return nil, enc, val
	}
	n := 1
	for _, vals := range active {
		n *= len(vals)
	}
	out := make([]uint32, 0, n)

	idx = idx[:len(active)]
	clear(idx)
	for {
		enc = enc[:0]
		for k, vals := range active {
			enc, val = appendFeature(enc, val, activeCol[k], vals[idx[k]])
		}
		out = append(out, bits.Reduce(h.fn.Sum64(enc), h.numBins))

		k := len(active) - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < len(active[k]) {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return out, enc, val
		}
	}
}

// appendFeature appends one value of a combination to the joint encoding:
// uvarint(column) | uvarint(len) | canonical bytes. The column index and
// length prefix make the encoding injective, so ("ab","c") and ("a","bc")
// never share a joint key, nor do equal values from different columns.
func appendFeature(enc, val []byte, col int, v Scalar) ([]byte, []byte) {
	val = v.AppendBytes(val[:0])
	enc = binary.AppendUvarint(enc, uint64(col))
	enc = binary.AppendUvarint(enc, uint64(len(val)))
	return append(enc, val...), val
}

// assembleCross lays the per-row buckets out as a dense or sparse result.
func assembleCross(plan *crossPlan, perRow [][]uint32) *CrossResult {
	if plan.allDense {
		width := 0
		if len(perRow) > 0 {
			width = len(perRow[0])
		}
		d := &DenseBuckets{Rows: plan.rows, Width: width, Values: make([]uint32, 0, len(perRow)*width)}
		for _, row := range perRow {
			d.Values = append(d.Values, row...)
		}
		return &CrossResult{Dense: d}
	}

	total, width := 0, 0
	for _, row := range perRow {
		total += len(row)
		width = max(width, len(row))
	}
	s := &SparseBuckets{
		Indices: make([]Coord, 0, total),
		Values:  make([]uint32, 0, total),
		Shape:   Shape{int64(plan.rows), int64(width)},
	}
	for i, row := range perRow {
		r := plan.row(i)
		for j, b := range row {
			s.Indices = append(s.Indices, Coord{r, int64(j)})
			s.Values = append(s.Values, b)
		}
	}
	return &CrossResult{Sparse: s}
}
