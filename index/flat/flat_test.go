package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T, dim int) *Index {
	t.Helper()
	x, err := New(WithDimension(dim))
	require.NoError(t, err)
	return x
}

func TestNew(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	x := newIndex(t, 3)
	assert.Equal(t, 3, x.Dimension())
	assert.Equal(t, 0, x.Rows())
}

func TestAdd(t *testing.T) {
	t.Run("NormalizesStoredRows", func(t *testing.T) {
		x := newIndex(t, 2)
		require.NoError(t, x.Add([][]float32{{3, 4}}))
		require.Equal(t, 1, x.Rows())

		row, err := x.Row(0)
		require.NoError(t, err)
		assert.InDelta(t, 0.6, row[0], 1e-6)
		assert.InDelta(t, 0.8, row[1], 1e-6)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		x := newIndex(t, 2)
		err := x.Add([][]float32{{1, 0}, {1, 2, 3}})
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
		// Nothing was appended.
		assert.Equal(t, 0, x.Rows())
	})

	t.Run("ZeroVector", func(t *testing.T) {
		x := newIndex(t, 2)
		err := x.Add([][]float32{{1, 0}, {0, 0}})
		assert.Error(t, err)
		assert.Equal(t, 0, x.Rows())
	})
}

func TestRemove(t *testing.T) {
	x := newIndex(t, 2)
	require.NoError(t, x.Add([][]float32{{1, 0}, {0, 1}, {1, 1}}))

	t.Run("OutOfRangeIsAllOrNothing", func(t *testing.T) {
		err := x.Remove([]int{0, 3})
		var oor *ErrPositionOutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 3, x.Rows())
	})

	t.Run("CompactsAndReindexes", func(t *testing.T) {
		require.NoError(t, x.Remove([]int{1}))
		require.Equal(t, 2, x.Rows())

		// Former row 2 ([1,1] normalized) is now at position 1.
		row, err := x.Row(1)
		require.NoError(t, err)
		assert.InDelta(t, row[0], row[1], 1e-6)
	})
}

func TestReset(t *testing.T) {
	x := newIndex(t, 2)
	require.NoError(t, x.Add([][]float32{{1, 0}}))
	x.Reset()
	assert.Equal(t, 0, x.Rows())
	assert.Equal(t, 2, x.Dimension())

	// Dimension survives for future adds.
	require.NoError(t, x.Add([][]float32{{0, 1}}))
	assert.Equal(t, 1, x.Rows())
}

func TestSearch(t *testing.T) {
	x := newIndex(t, 2)
	require.NoError(t, x.Add([][]float32{{1, 0}, {0, 1}}))

	t.Run("TopOne", func(t *testing.T) {
		scores, positions, err := x.Search([]float32{1, 0}, 1)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, positions)
		assert.InDelta(t, 1.0, scores[0], 1e-6)
	})

	t.Run("DescendingOrder", func(t *testing.T) {
		scores, positions, err := x.Search([]float32{0.6, 0.8}, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0}, positions)
		assert.Greater(t, scores[0], scores[1])
	})

	t.Run("PadsWithNoMatch", func(t *testing.T) {
		scores, positions, err := x.Search([]float32{1, 0}, 4)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, NoMatch, NoMatch}, positions)
		assert.Equal(t, float32(0), scores[2])
	})

	t.Run("EmptyIndex", func(t *testing.T) {
		empty := newIndex(t, 2)
		_, positions, err := empty.Search([]float32{1, 0}, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{NoMatch, NoMatch}, positions)
	})

	t.Run("ZeroK", func(t *testing.T) {
		scores, positions, err := x.Search([]float32{1, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, scores)
		assert.Empty(t, positions)
	})

	t.Run("NegativeK", func(t *testing.T) {
		_, _, err := x.Search([]float32{1, 0}, -1)
		assert.Error(t, err)
	})

	t.Run("QueryDimensionMismatch", func(t *testing.T) {
		_, _, err := x.Search([]float32{1, 0, 0}, 1)
		var dm *ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})

	t.Run("TiesPreferInsertionOrder", func(t *testing.T) {
		tie := newIndex(t, 2)
		require.NoError(t, tie.Add([][]float32{{2, 0}, {1, 0}, {3, 0}}))
		_, positions, err := tie.Search([]float32{1, 0}, 2)
		require.NoError(t, err)
		// All rows normalize to the same unit vector; lower positions win.
		assert.Equal(t, []int{0, 1}, positions)
	})

	t.Run("ScoresAreCosine", func(t *testing.T) {
		c := newIndex(t, 2)
		require.NoError(t, c.Add([][]float32{{5, 0}})) // magnitude must not matter
		scores, _, err := c.Search([]float32{0.3, 0}, 1)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, scores[0], 1e-6)
	})
}

func TestSearchWithFilter(t *testing.T) {
	x := newIndex(t, 2)
	require.NoError(t, x.Add([][]float32{{1, 0}, {0.99, 0.01}, {0, 1}}))

	t.Run("RejectedRowsDoNotCountTowardK", func(t *testing.T) {
		scores, positions, err := x.SearchWithFilter([]float32{1, 0}, 2, func(position int) bool {
			return position != 0
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, positions)
		assert.InDelta(t, 0, scores[1], 1e-6)
	})

	t.Run("AllRejectedPadsFully", func(t *testing.T) {
		_, positions, err := x.SearchWithFilter([]float32{1, 0}, 2, func(int) bool { return false })
		require.NoError(t, err)
		assert.Equal(t, []int{NoMatch, NoMatch}, positions)
	})

	t.Run("NilFilterMatchesSearch", func(t *testing.T) {
		_, positions, err := x.SearchWithFilter([]float32{1, 0}, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, positions)
	})
}
