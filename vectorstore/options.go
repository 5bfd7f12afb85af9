package vectorstore

import "github.com/m638-hue/SofttekLLMSDK/metadata"

// DefaultDimension is the embedding width of the default namespace when
// none is configured. It matches OpenAI's text-embedding-ada-002 output.
const DefaultDimension = 1536

// Options contains configuration options for the store.
type Options struct {
	// Dimension is the embedding width of the default namespace. Named
	// namespaces infer their dimension from the first batch added.
	Dimension int

	// Logger receives structured operation logs.
	Logger *Logger
}

// DefaultOptions contains the default configuration options for the store.
var DefaultOptions = Options{
	Dimension: DefaultDimension,
}

// WithDimension sets the default namespace dimension.
func WithDimension(d int) func(o *Options) {
	return func(o *Options) { o.Dimension = d }
}

// WithLogger sets the logger used for operation logs.
func WithLogger(l *Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// DeleteOptions contains options for Delete.
type DeleteOptions struct {
	// IDs selects the vectors to remove. A non-nil value takes precedence
	// over All, even when empty.
	IDs []string

	// All removes every vector in the namespace.
	All bool
}

// WithIDs selects explicit vector ids for deletion.
func WithIDs(ids ...string) func(o *DeleteOptions) {
	return func(o *DeleteOptions) {
		if o.IDs == nil {
			o.IDs = []string{}
		}
		o.IDs = append(o.IDs, ids...)
	}
}

// WithDeleteAll requests removal of every vector in the namespace.
func WithDeleteAll() func(o *DeleteOptions) {
	return func(o *DeleteOptions) { o.All = true }
}

// SearchOptions contains options for Search.
type SearchOptions struct {
	// TopK is the number of results to return. Defaults to 1.
	TopK int

	// Filter restricts candidates to vectors whose metadata matches every
	// clause. A nil filter admits everything.
	Filter metadata.Filter
}

// WithTopK sets the number of results to return.
func WithTopK(k int) func(o *SearchOptions) {
	return func(o *SearchOptions) { o.TopK = k }
}

// WithFilter restricts search candidates by metadata equality.
func WithFilter(f metadata.Filter) func(o *SearchOptions) {
	return func(o *SearchOptions) { o.Filter = f }
}
