package metadata

import "github.com/RoaringBitmap/roaring/v2"

// Index is an inverted index from metadata terms to row positions.
//
// Positions mirror the row positions of the paired flat index, so the index
// must be rebuilt whenever rows are removed and positions shift. Not safe
// for concurrent use; callers serialize access like the rest of a partition.
type Index struct {
	postings map[string]*roaring.Bitmap
}

// NewIndex creates an empty inverted index.
func NewIndex() *Index {
	return &Index{postings: make(map[string]*roaring.Bitmap)}
}

// Insert indexes all indexable scalar terms of md under the given position.
func (ix *Index) Insert(position int, md Metadata) {
	for key, value := range md {
		t, ok := term(key, value)
		if !ok {
			continue
		}
		bm := ix.postings[t]
		if bm == nil {
			bm = roaring.New()
			ix.postings[t] = bm
		}
		bm.Add(uint32(position))
	}
}

// Reset discards all postings.
func (ix *Index) Reset() {
	ix.postings = make(map[string]*roaring.Bitmap)
}

// Rebuild re-indexes the given metadata list; position i holds mds[i].
func (ix *Index) Rebuild(mds []Metadata) {
	ix.Reset()
	for i, md := range mds {
		ix.Insert(i, md)
	}
}

// Matches returns the positions matching every clause of f.
// Unindexable clause values and unknown terms match nothing.
func (ix *Index) Matches(f Filter) *roaring.Bitmap {
	result := roaring.New()
	for i, clause := range f {
		t, ok := term(clause.Key, clause.Value)
		if !ok {
			return roaring.New()
		}
		bm := ix.postings[t]
		if bm == nil {
			return roaring.New()
		}
		if i == 0 {
			result = bm.Clone()
			continue
		}
		result.And(bm)
	}
	return result
}
