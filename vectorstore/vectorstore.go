// Package vectorstore implements an embedded, namespace-partitioned
// vector store with exact cosine-similarity search.
//
// Vectors live in isolated namespaces; each namespace pairs a flat
// inner-product index with a record list and a metadata posting index.
// All exported operations on a Store are safe for concurrent use.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/m638-hue/SofttekLLMSDK/index/flat"
	"github.com/m638-hue/SofttekLLMSDK/metadata"
)

// Store is the facade over all namespace partitions.
type Store struct {
	mu       sync.RWMutex
	registry *Registry
	logger   *Logger
}

// New creates an empty store. The default namespace exists immediately at
// the configured dimension.
func New(optFns ...func(o *Options)) (*Store, error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	reg, err := NewRegistry(opts.Dimension)
	if err != nil {
		return nil, err
	}

	return newStore(reg, opts), nil
}

// NewWithRegistry wraps an existing registry, typically one restored from
// persisted blobs. The registry must not be used directly afterwards.
func NewWithRegistry(reg *Registry, optFns ...func(o *Options)) *Store {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return newStore(reg, opts)
}

func newStore(reg *Registry, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = NoopLogger()
	}

	return &Store{
		registry: reg,
		logger:   logger,
	}
}

// Registry exposes the underlying registry for serialization. The caller
// must hold no concurrent operations against the store while using it.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Len returns the number of vectors stored in the given namespace, or 0
// if the namespace does not exist.
func (s *Store) Len(namespace Namespace) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.registry.Partition(namespace)
	if !ok {
		return 0
	}

	return p.Len()
}

// Namespaces returns all namespaces known to the store, default first.
func (s *Store) Namespaces() []Namespace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.registry.Namespaces()
}

// Add inserts the batch into the namespace. The batch is validated as a
// whole before any vector lands: ids must be non-empty and unique (both
// within the batch and against stored vectors), and every embedding must
// match the partition dimension. On error nothing is inserted.
//
// A named namespace is created on first add, its dimension inferred from
// the first vector of the batch.
func (s *Store) Add(ctx context.Context, namespace Namespace, vectors []Vector) error {
	err := s.add(ctx, namespace, vectors)
	s.logger.LogAdd(ctx, namespace, len(vectors), err)

	return err
}

func (s *Store) add(ctx context.Context, namespace Namespace, vectors []Vector) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(vectors) == 0 {
		return fmt.Errorf("%w: empty batch", ErrInvalidArgument)
	}

	for _, v := range vectors {
		if v.ID == "" {
			return fmt.Errorf("%w: vector id must not be empty", ErrInvalidArgument)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.registry.Partition(namespace)

	seen := make(map[string]struct{}, len(vectors))
	for _, v := range vectors {
		if _, dup := seen[v.ID]; dup {
			return &ErrDuplicateID{ID: v.ID}
		}
		seen[v.ID] = struct{}{}

		if ok {
			if _, dup := existing.positionOf(v.ID); dup {
				return &ErrDuplicateID{ID: v.ID}
			}
		}
	}

	dimension := len(vectors[0].Embeddings)
	if ok {
		dimension = existing.Dimension()
	}

	for _, v := range vectors {
		if len(v.Embeddings) != dimension {
			return &ErrDimensionMismatch{ID: v.ID, Expected: dimension, Actual: len(v.Embeddings)}
		}
	}

	p := existing
	if !ok {
		created, err := newPartition(dimension)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, err)
		}
		p = created
	}

	if err := p.append(vectors); err != nil {
		return translateIndexError(err)
	}

	if !ok {
		s.registry.Attach(namespace, p)
	}

	return nil
}

// Delete removes vectors from the namespace. When ids are given via
// WithIDs they take precedence over WithDeleteAll; every id must resolve
// or nothing is removed. WithDeleteAll empties the namespace but keeps it
// registered at its dimension.
func (s *Store) Delete(ctx context.Context, namespace Namespace, optFns ...func(o *DeleteOptions)) error {
	var opts DeleteOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	removed, err := s.delete(ctx, namespace, opts)
	s.logger.LogDelete(ctx, namespace, removed, err)

	return err
}

func (s *Store) delete(ctx context.Context, namespace Namespace, opts DeleteOptions) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.registry.Partition(namespace)
	if !ok {
		return 0, &ErrNamespaceNotFound{Namespace: namespace}
	}

	switch {
	case opts.IDs != nil:
		positions := make([]int, 0, len(opts.IDs))
		for _, id := range opts.IDs {
			pos, found := p.positionOf(id)
			if !found {
				return 0, &ErrIDNotFound{ID: id}
			}
			positions = append(positions, pos)
		}

		if len(positions) == 0 {
			return 0, nil
		}

		if err := p.remove(positions); err != nil {
			return 0, translateIndexError(err)
		}

		return len(positions), nil
	case opts.All:
		n := p.Len()
		p.reset()

		return n, nil
	default:
		return 0, fmt.Errorf("%w: delete requires ids or delete-all", ErrInvalidArgument)
	}
}

// Search returns the top-k most similar vectors in the namespace, in
// descending cosine-similarity order with ties broken by insertion order.
//
// The anchor is either the query's explicit vector or, for an id query,
// the stored vector with that id. Each result is a fresh record whose
// metadata merges the query vector's metadata (base) with the match's
// metadata (overlay), plus the similarity score under metadata.ScoreKey.
//
// Searching an unknown or empty namespace returns no results and no
// error.
func (s *Store) Search(ctx context.Context, namespace Namespace, query Query, optFns ...func(o *SearchOptions)) ([]Vector, error) {
	opts := SearchOptions{TopK: 1}

	for _, fn := range optFns {
		fn(&opts)
	}

	results, err := s.search(ctx, namespace, query, opts)
	s.logger.LogSearch(ctx, namespace, opts.TopK, len(results), err)

	return results, err
}

func (s *Store) search(ctx context.Context, namespace Namespace, query Query, opts SearchOptions) ([]Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.TopK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", ErrInvalidArgument, opts.TopK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.registry.Partition(namespace)
	if !ok || p.Len() == 0 {
		return nil, nil
	}

	var anchor []float32

	switch {
	case query.vector != nil:
		anchor = query.vector.Embeddings
	case query.id != "":
		pos, found := p.positionOf(query.id)
		if !found {
			return nil, &ErrIDNotFound{ID: query.id}
		}
		anchor = p.records[pos].Embeddings
	default:
		return nil, fmt.Errorf("%w: query requires a vector or an id", ErrInvalidArgument)
	}

	var allow func(position int) bool
	if opts.Filter != nil {
		matches := p.meta.Matches(opts.Filter)
		if matches.IsEmpty() {
			return nil, nil
		}
		allow = func(position int) bool {
			return matches.Contains(uint32(position))
		}
	}

	scores, positions, err := p.index.SearchWithFilter(anchor, opts.TopK, allow)
	if err != nil {
		return nil, translateIndexError(err)
	}

	base := query.metadata()
	results := make([]Vector, 0, opts.TopK)

	for i, pos := range positions {
		if pos == flat.NoMatch {
			continue
		}

		rec := p.records[pos]
		md := metadata.Merge(base, rec.Metadata)
		md[metadata.ScoreKey] = scores[i]

		results = append(results, Vector{
			ID:         rec.ID,
			Embeddings: rec.Clone().Embeddings,
			Metadata:   md,
		})
	}

	return results, nil
}

// translateIndexError maps flat index errors onto the store's error
// taxonomy.
func translateIndexError(err error) error {
	if err == nil {
		return nil
	}

	var dim *flat.ErrDimensionMismatch
	if errors.As(err, &dim) {
		return &ErrDimensionMismatch{Expected: dim.Expected, Actual: dim.Actual}
	}

	return err
}
