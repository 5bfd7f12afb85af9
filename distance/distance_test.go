package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	assert.Equal(t, float32(0), Dot([]float32{1, 0}, []float32{0, 1}))
	assert.Equal(t, float32(1), Dot([]float32{1, 0}, []float32{1, 0}))
	assert.InDelta(t, 32.0, Dot([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-6)
}

func TestSquaredL2(t *testing.T) {
	assert.Equal(t, float32(0), SquaredL2([]float32{1, 2}, []float32{1, 2}))
	assert.InDelta(t, 2.0, SquaredL2([]float32{1, 0}, []float32{0, 1}), 1e-6)
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		v := []float32{3, 4}
		require.True(t, NormalizeL2InPlace(v))
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
		assert.InDelta(t, 1.0, Dot(v, v), 1e-6)
	})

	t.Run("ZeroVector", func(t *testing.T) {
		assert.False(t, NormalizeL2InPlace([]float32{0, 0, 0}))
		assert.False(t, NormalizeL2InPlace(nil))

		_, ok := NormalizeL2Copy([]float32{0, 0})
		assert.False(t, ok)
	})

	t.Run("Copy", func(t *testing.T) {
		src := []float32{1, 1}
		dst, ok := NormalizeL2Copy(src)
		require.True(t, ok)
		// Source is untouched.
		assert.Equal(t, []float32{1, 1}, src)
		assert.InDelta(t, 1/math.Sqrt2, dst[0], 1e-6)
	})

	t.Run("DotEqualsCosine", func(t *testing.T) {
		a := []float32{0.3, 1.2, -4.5}
		b := []float32{2.0, -0.7, 0.1}

		na, ok := NormalizeL2Copy(a)
		require.True(t, ok)
		nb, ok := NormalizeL2Copy(b)
		require.True(t, ok)

		cosine := Dot(a, b) / float32(math.Sqrt(float64(Dot(a, a)))*math.Sqrt(float64(Dot(b, b))))
		assert.InDelta(t, cosine, Dot(na, nb), 1e-6)
	})
}
