package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopK(t *testing.T) {
	t.Run("KeepsBestK", func(t *testing.T) {
		q := NewTopK(2)
		q.Offer(Candidate{Position: 0, Score: 0.1})
		q.Offer(Candidate{Position: 1, Score: 0.9})
		q.Offer(Candidate{Position: 2, Score: 0.5})

		got := q.Drain()
		assert.Equal(t, []Candidate{
			{Position: 1, Score: 0.9},
			{Position: 2, Score: 0.5},
		}, got)
	})

	t.Run("FewerThanK", func(t *testing.T) {
		q := NewTopK(5)
		q.Offer(Candidate{Position: 0, Score: 0.3})
		got := q.Drain()
		assert.Len(t, got, 1)
		assert.Equal(t, 0, got[0].Position)
	})

	t.Run("TiesPreferLowerPosition", func(t *testing.T) {
		q := NewTopK(2)
		q.Offer(Candidate{Position: 2, Score: 0.5})
		q.Offer(Candidate{Position: 0, Score: 0.5})
		q.Offer(Candidate{Position: 1, Score: 0.5})

		got := q.Drain()
		assert.Equal(t, []Candidate{
			{Position: 0, Score: 0.5},
			{Position: 1, Score: 0.5},
		}, got)
	})

	t.Run("ZeroK", func(t *testing.T) {
		q := NewTopK(0)
		q.Offer(Candidate{Position: 0, Score: 1})
		assert.Empty(t, q.Drain())
	})
}
