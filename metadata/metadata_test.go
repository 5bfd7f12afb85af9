package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	base := Metadata{"tag": "query", "shared": "base"}
	overlay := Metadata{"shared": "match", "extra": 1}

	got := Merge(base, overlay)
	assert.Equal(t, Metadata{"tag": "query", "shared": "match", "extra": 1}, got)

	// Inputs are untouched.
	assert.Equal(t, "base", base["shared"])

	assert.Empty(t, Merge(nil, nil))
}

func TestClone(t *testing.T) {
	m := Metadata{"a": 1}
	c := m.Clone()
	c["a"] = 2
	assert.Equal(t, 1, m["a"])

	assert.Nil(t, Metadata(nil).Clone())
}

func TestIndexMatches(t *testing.T) {
	ix := NewIndex()
	ix.Insert(0, Metadata{"category": "tech", "year": 2024})
	ix.Insert(1, Metadata{"category": "tech", "year": 2023})
	ix.Insert(2, Metadata{"category": "news"})

	t.Run("SingleClause", func(t *testing.T) {
		bm := ix.Matches(Eq("category", "tech"))
		assert.Equal(t, []uint32{0, 1}, bm.ToArray())
	})

	t.Run("Conjunction", func(t *testing.T) {
		bm := ix.Matches(Eq("category", "tech").And("year", 2024))
		assert.Equal(t, []uint32{0}, bm.ToArray())
	})

	t.Run("NumericTypesCollapse", func(t *testing.T) {
		// 2024 was indexed as int; a float64 query (e.g. from JSON) matches.
		bm := ix.Matches(Eq("year", float64(2024)))
		assert.Equal(t, []uint32{0}, bm.ToArray())
	})

	t.Run("UnknownTerm", func(t *testing.T) {
		assert.True(t, ix.Matches(Eq("category", "none")).IsEmpty())
	})

	t.Run("UnindexableValue", func(t *testing.T) {
		assert.True(t, ix.Matches(Eq("category", map[string]any{})).IsEmpty())
	})
}

func TestIndexRebuild(t *testing.T) {
	ix := NewIndex()
	ix.Insert(0, Metadata{"k": "a"})
	ix.Insert(1, Metadata{"k": "b"})

	// Row 0 removed; row 1 shifts down.
	ix.Rebuild([]Metadata{{"k": "b"}})

	assert.True(t, ix.Matches(Eq("k", "a")).IsEmpty())
	assert.Equal(t, []uint32{0}, ix.Matches(Eq("k", "b")).ToArray())
}
