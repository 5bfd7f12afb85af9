package vectorstore

import "github.com/m638-hue/SofttekLLMSDK/metadata"

// Query selects the search anchor: either an explicit vector or the id of
// a vector already stored in the target namespace. Exactly one is set;
// the zero Query is invalid.
type Query struct {
	vector *Vector
	id     string
}

// QueryVector builds a query around an explicit embedding. The vector's
// metadata, if any, becomes the base layer of each result's metadata.
func QueryVector(v Vector) Query {
	return Query{vector: &v}
}

// QueryID builds a query that anchors on the stored vector with the
// given id.
func QueryID(id string) Query {
	return Query{id: id}
}

func (q Query) metadata() metadata.Metadata {
	if q.vector == nil {
		return nil
	}

	return q.vector.Metadata
}
