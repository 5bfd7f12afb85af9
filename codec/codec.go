// Package codec centralizes record-list encoding for persistence.
//
// Codec selection is a breaking-change boundary: record blobs written with
// one codec may not decode with another, so persisted blobs record the codec
// name in their frame header.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}
