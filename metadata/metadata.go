// Package metadata provides the metadata map attached to stored vectors and
// a roaring-bitmap inverted index for filtered search.
package metadata

import "maps"

// ScoreKey is the metadata key under which search attaches the similarity
// score of a match.
const ScoreKey = "score"

// Metadata is a free-form mapping from string keys to scalar or structured
// values.
type Metadata map[string]any

// Clone returns a shallow copy of m. A nil map clones to nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Merge combines base and overlay into a fresh map; overlay keys win.
// Either argument may be nil.
func Merge(base, overlay Metadata) Metadata {
	out := make(Metadata, len(base)+len(overlay))
	maps.Copy(out, base)
	maps.Copy(out, overlay)
	return out
}
