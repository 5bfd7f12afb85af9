package vectorstore

import (
	"slices"

	"github.com/m638-hue/SofttekLLMSDK/metadata"
)

// Vector is the atomic unit of data: an embedding plus identity and
// metadata.
//
// The id must be unique within a namespace and must not be empty. The raw
// embedding is preserved as given; only the index-internal copy is
// normalized.
type Vector struct {
	ID         string            `json:"id"`
	Embeddings []float32         `json:"embeddings"`
	Metadata   metadata.Metadata `json:"metadata,omitempty"`
}

// Clone returns a deep-enough copy: embeddings and the metadata map are
// copied, metadata values are shared.
func (v Vector) Clone() Vector {
	return Vector{
		ID:         v.ID,
		Embeddings: slices.Clone(v.Embeddings),
		Metadata:   v.Metadata.Clone(),
	}
}
