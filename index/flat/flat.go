// Package flat provides a brute-force (exact) vector index over a fixed
// dimension. Rows are stored contiguously in insertion order; the row
// position is the positional id used by the surrounding store.
package flat

import (
	"fmt"

	"github.com/m638-hue/SofttekLLMSDK/distance"
	"github.com/m638-hue/SofttekLLMSDK/internal/queue"
)

// NoMatch is the sentinel position returned by Search for padded slots when
// fewer than k rows exist.
const NoMatch = -1

// ErrDimensionMismatch is a named error type for dimension mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrPositionOutOfRange is a named error type for invalid row positions.
type ErrPositionOutOfRange struct {
	Position int
	Rows     int
}

func (e *ErrPositionOutOfRange) Error() string {
	return fmt.Sprintf("position %d out of range (rows: %d)", e.Position, e.Rows)
}

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed vector dimensionality for this index.
	// It must be > 0 and is enforced for all adds and searches.
	Dimension int

	// NormalizeVectors enables L2 normalization for stored vectors and
	// queries, making the inner product equal cosine similarity.
	NormalizeVectors bool
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Dimension:        0,
	NormalizeVectors: true,
}

// Index is a flat inner-product index.
//
// Not safe for concurrent use; callers must serialize access.
type Index struct {
	opts Options
	data []float32 // contiguous rows, len == rows*Dimension
	rows int
}

// New creates a new flat index. Dimension must be set via options.
func New(optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("flat: invalid dimension: %d", opts.Dimension)
	}

	return &Index{opts: opts}, nil
}

// WithDimension sets the index dimension.
func WithDimension(d int) func(o *Options) {
	return func(o *Options) { o.Dimension = d }
}

// Dimension returns the fixed vector dimensionality.
func (x *Index) Dimension() int { return x.opts.Dimension }

// Rows returns the number of stored rows.
func (x *Index) Rows() int { return x.rows }

// Add appends the given vectors as new rows, preserving argument order.
//
// Each vector must have the index dimension. When normalization is enabled,
// a private normalized copy is stored; the caller's slices are never
// retained or modified. Validation and normalization of the whole batch
// complete before any row is appended, so a failure leaves the index
// unchanged.
func (x *Index) Add(vectors [][]float32) error {
	prepared := make([][]float32, 0, len(vectors))
	for _, v := range vectors {
		if len(v) != x.opts.Dimension {
			return &ErrDimensionMismatch{Expected: x.opts.Dimension, Actual: len(v)}
		}
		row := v
		if x.opts.NormalizeVectors {
			norm, ok := distance.NormalizeL2Copy(v)
			if !ok {
				return fmt.Errorf("flat: cannot normalize zero vector")
			}
			row = norm
		}
		prepared = append(prepared, row)
	}

	for _, row := range prepared {
		x.data = append(x.data, row...)
	}
	x.rows += len(prepared)
	return nil
}

// Row returns the stored (normalized) row at the given position.
// The returned slice aliases internal storage and must not be modified.
func (x *Index) Row(position int) ([]float32, error) {
	if position < 0 || position >= x.rows {
		return nil, &ErrPositionOutOfRange{Position: position, Rows: x.rows}
	}
	d := x.opts.Dimension
	return x.data[position*d : (position+1)*d], nil
}

// Remove deletes the rows at the given positions. Remaining rows are
// compacted in order, so positions after a removed row shift down by one.
// If any position is out of range, no row is removed.
func (x *Index) Remove(positions []int) error {
	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if p < 0 || p >= x.rows {
			return &ErrPositionOutOfRange{Position: p, Rows: x.rows}
		}
		drop[p] = struct{}{}
	}
	if len(drop) == 0 {
		return nil
	}

	d := x.opts.Dimension
	kept := x.data[:0]
	keptRows := 0
	for row := 0; row < x.rows; row++ {
		if _, ok := drop[row]; ok {
			continue
		}
		kept = append(kept, x.data[row*d:(row+1)*d]...)
		keptRows++
	}
	x.data = kept
	x.rows = keptRows
	return nil
}

// Reset clears all rows. The dimension is retained for future adds.
func (x *Index) Reset() {
	x.data = x.data[:0]
	x.rows = 0
}

// Search computes the inner product of the query against every stored row
// and returns the k highest-scoring rows in descending score order, ties
// broken by lower position.
//
// Both slices always have length k; when fewer than k rows exist the tail
// is padded with score 0 and position NoMatch. k must be >= 0.
func (x *Index) Search(query []float32, k int) (scores []float32, positions []int, err error) {
	return x.SearchWithFilter(query, k, nil)
}

// SearchWithFilter is Search restricted to rows for which allow returns
// true. A nil allow admits every row. Rows the filter rejects never count
// toward k, so the tail is padded when fewer than k rows pass.
func (x *Index) SearchWithFilter(query []float32, k int, allow func(position int) bool) (scores []float32, positions []int, err error) {
	if k < 0 {
		return nil, nil, fmt.Errorf("flat: k must be non-negative, got %d", k)
	}
	if len(query) != x.opts.Dimension {
		return nil, nil, &ErrDimensionMismatch{Expected: x.opts.Dimension, Actual: len(query)}
	}

	q := query
	if x.opts.NormalizeVectors {
		norm, ok := distance.NormalizeL2Copy(query)
		if !ok {
			return nil, nil, fmt.Errorf("flat: cannot normalize zero query")
		}
		q = norm
	}

	top := queue.NewTopK(k)
	d := x.opts.Dimension
	for row := 0; row < x.rows; row++ {
		if allow != nil && !allow(row) {
			continue
		}
		top.Offer(queue.Candidate{
			Position: row,
			Score:    distance.Dot(q, x.data[row*d:(row+1)*d]),
		})
	}

	scores = make([]float32, k)
	positions = make([]int, k)
	for i := range positions {
		positions[i] = NoMatch
	}
	for i, c := range top.Drain() {
		scores[i] = c.Score
		positions[i] = c.Position
	}
	return scores, positions, nil
}
