package vectorstore

import (
	"fmt"
	"sort"

	"github.com/m638-hue/SofttekLLMSDK/index/flat"
	"github.com/m638-hue/SofttekLLMSDK/metadata"
)

// Partition holds the state of a single namespace: the flat index, the
// record list in index order, and the metadata posting index. The record
// at list position i always describes index row i.
type Partition struct {
	index   *flat.Index
	records []Vector
	meta    *metadata.Index
}

func newPartition(dimension int) (*Partition, error) {
	idx, err := flat.New(flat.WithDimension(dimension))
	if err != nil {
		return nil, err
	}

	return &Partition{
		index: idx,
		meta:  metadata.NewIndex(),
	}, nil
}

// NewPartition assembles a partition from an existing index and record
// list, typically after deserialization. The record count must equal the
// index row count.
func NewPartition(idx *flat.Index, records []Vector) (*Partition, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: nil index", ErrInvalidArgument)
	}

	if len(records) != idx.Rows() {
		return nil, fmt.Errorf("%w: index has %d rows but %d records", ErrInvalidArgument, idx.Rows(), len(records))
	}

	p := &Partition{
		index:   idx,
		records: records,
		meta:    metadata.NewIndex(),
	}
	p.rebuildMeta()

	return p, nil
}

// Len returns the number of stored vectors.
func (p *Partition) Len() int {
	return len(p.records)
}

// Dimension returns the partition dimension, or 0 while no vector has
// been added yet.
func (p *Partition) Dimension() int {
	return p.index.Dimension()
}

// Index exposes the underlying flat index, for serialization.
func (p *Partition) Index() *flat.Index {
	return p.index
}

// Records exposes the stored records in index order, for serialization.
// The returned slice must not be modified.
func (p *Partition) Records() []Vector {
	return p.records
}

func (p *Partition) rebuildMeta() {
	mds := make([]metadata.Metadata, len(p.records))
	for i, rec := range p.records {
		mds[i] = rec.Metadata
	}

	p.meta.Rebuild(mds)
}

func (p *Partition) positionOf(id string) (int, bool) {
	for i, rec := range p.records {
		if rec.ID == id {
			return i, true
		}
	}

	return 0, false
}

// append adds the batch to index and record list. The caller has already
// validated ids and dimensions, so a failure here leaves the partition
// unchanged only because flat.Index.Add is itself all-or-nothing.
func (p *Partition) append(vectors []Vector) error {
	embeddings := make([][]float32, len(vectors))
	for i, v := range vectors {
		embeddings[i] = v.Embeddings
	}

	base := p.index.Rows()

	if err := p.index.Add(embeddings); err != nil {
		return err
	}

	for i, v := range vectors {
		p.records = append(p.records, v.Clone())
		p.meta.Insert(base+i, v.Metadata)
	}

	return nil
}

func (p *Partition) remove(positions []int) error {
	if err := p.index.Remove(positions); err != nil {
		return err
	}

	drop := make(map[int]struct{}, len(positions))
	for _, pos := range positions {
		drop[pos] = struct{}{}
	}

	kept := p.records[:0]
	for i, rec := range p.records {
		if _, ok := drop[i]; !ok {
			kept = append(kept, rec)
		}
	}

	clear(p.records[len(kept):])
	p.records = kept
	p.rebuildMeta()

	return nil
}

func (p *Partition) reset() {
	p.index.Reset()
	p.records = nil
	p.meta.Reset()
}

// Registry maps namespaces to partitions. The default namespace is
// created eagerly at the configured dimension; named namespaces are
// created lazily on first add, with the dimension inferred from the first
// batch.
type Registry struct {
	defaultDimension int
	partitions       map[Namespace]*Partition
}

// NewRegistry creates a registry whose default partition expects vectors
// of the given dimension.
func NewRegistry(defaultDimension int) (*Registry, error) {
	def, err := newPartition(defaultDimension)
	if err != nil {
		return nil, err
	}

	return &Registry{
		defaultDimension: defaultDimension,
		partitions: map[Namespace]*Partition{
			Default: def,
		},
	}, nil
}

// DefaultDimension returns the dimension configured for the default
// partition.
func (r *Registry) DefaultDimension() int {
	return r.defaultDimension
}

// Partition returns the partition for ns, if it exists.
func (r *Registry) Partition(ns Namespace) (*Partition, bool) {
	p, ok := r.partitions[ns]
	return p, ok
}

// Namespaces returns all known namespaces, default first, the rest sorted
// by name.
func (r *Registry) Namespaces() []Namespace {
	out := make([]Namespace, 0, len(r.partitions))
	for ns := range r.partitions {
		if ns.IsDefault() {
			continue
		}
		out = append(out, ns)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })

	if _, ok := r.partitions[Default]; ok {
		out = append([]Namespace{Default}, out...)
	}

	return out
}

// Attach installs a partition for ns, replacing any existing one. Used
// when restoring from persisted blobs.
func (r *Registry) Attach(ns Namespace, p *Partition) {
	r.partitions[ns] = p
}
