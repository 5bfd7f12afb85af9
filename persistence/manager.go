// Package persistence saves and restores vector store partitions through a
// blob store.
//
// Every namespace persists as a pair of blobs sharing a base name: the flat
// index rows in a checksummed binary blob, and the record list in a
// compressed codec blob. A full save additionally writes a manifest listing
// the saved namespaces.
package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/m638-hue/SofttekLLMSDK/blobstore"
	"github.com/m638-hue/SofttekLLMSDK/codec"
	"github.com/m638-hue/SofttekLLMSDK/index/flat"
	"github.com/m638-hue/SofttekLLMSDK/resource"
	"github.com/m638-hue/SofttekLLMSDK/vectorstore"
)

// ErrCorruptData is returned when a persisted blob fails structural
// validation: bad magic, failed checksum, undecodable records, or an
// index/record count disagreement.
var ErrCorruptData = errors.New("persistence: corrupt data")

// Options contains configuration options for the manager.
type Options struct {
	// Codec encodes the record list. Defaults to JSON.
	Codec codec.Codec

	// Compression wraps the encoded record list. Defaults to ZSTD.
	Compression CompressionType

	// Controller throttles job concurrency and I/O rate. Nil means
	// unthrottled.
	Controller *resource.Controller

	// Parallelism bounds how many namespaces save or load concurrently.
	Parallelism int

	// Logger receives structured save/load logs.
	Logger *slog.Logger
}

// DefaultOptions contains the default configuration options for the manager.
var DefaultOptions = Options{
	Codec:       codec.Default,
	Compression: CompressionZSTD,
	Parallelism: 4,
}

// WithCodec sets the record list codec.
func WithCodec(c codec.Codec) func(o *Options) {
	return func(o *Options) { o.Codec = c }
}

// WithCompression sets the record blob compression.
func WithCompression(c CompressionType) func(o *Options) {
	return func(o *Options) { o.Compression = c }
}

// WithController sets the resource controller used for throttling.
func WithController(c *resource.Controller) func(o *Options) {
	return func(o *Options) { o.Controller = c }
}

// WithParallelism bounds concurrent namespace saves/loads.
func WithParallelism(n int) func(o *Options) {
	return func(o *Options) { o.Parallelism = n }
}

// WithLogger sets the logger for save/load logs.
func WithLogger(l *slog.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// Manager persists registries to a blob store and restores them.
type Manager struct {
	store blobstore.BlobStore
	opts  Options
}

// NewManager creates a manager writing to the given blob store.
func NewManager(store blobstore.BlobStore, optFns ...func(o *Options)) *Manager {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Manager{store: store, opts: opts}
}

// SaveNamespace persists a single namespace as its blob pair. The
// manifest is not touched; use SaveAll for a complete snapshot.
func (m *Manager) SaveNamespace(ctx context.Context, reg *vectorstore.Registry, ns vectorstore.Namespace) error {
	p, ok := reg.Partition(ns)
	if !ok {
		return &vectorstore.ErrNamespaceNotFound{Namespace: ns}
	}

	return m.savePartition(ctx, ns, p)
}

// SaveAll persists every namespace of the registry, then writes the
// manifest. The manifest lands last, so a crash mid-save never publishes
// a snapshot referencing missing blobs.
func (m *Manager) SaveAll(ctx context.Context, reg *vectorstore.Registry) error {
	namespaces := reg.Namespaces()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Parallelism)

	for _, ns := range namespaces {
		g.Go(func() error {
			if err := m.opts.Controller.AcquireJob(gctx); err != nil {
				return err
			}
			defer m.opts.Controller.ReleaseJob()

			p, _ := reg.Partition(ns)
			if err := m.savePartition(gctx, ns, p); err != nil {
				return fmt.Errorf("persistence: save namespace %q: %w", ns, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	data, err := newManifest(namespaces).encode()
	if err != nil {
		return fmt.Errorf("persistence: encode manifest: %w", err)
	}

	if err := m.store.Put(ctx, ManifestName, data); err != nil {
		return fmt.Errorf("persistence: write manifest: %w", err)
	}

	m.opts.Logger.InfoContext(ctx, "snapshot saved",
		"namespaces", len(namespaces),
	)

	return nil
}

// Load restores the named namespaces into a fresh registry. The default
// namespace always exists afterwards: restored when present in the list,
// otherwise created empty at defaultDimension.
//
// A load failure names the namespace it belongs to and aborts the whole
// load.
func (m *Manager) Load(ctx context.Context, namespaces []vectorstore.Namespace, defaultDimension int) (*vectorstore.Registry, error) {
	reg, err := vectorstore.NewRegistry(defaultDimension)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Parallelism)

	for _, ns := range namespaces {
		g.Go(func() error {
			if err := m.opts.Controller.AcquireJob(gctx); err != nil {
				return err
			}
			defer m.opts.Controller.ReleaseJob()

			p, err := m.loadPartition(gctx, ns)
			if err != nil {
				return fmt.Errorf("persistence: load namespace %q: %w", ns, err)
			}

			mu.Lock()
			reg.Attach(ns, p)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reg, nil
}

// LoadAll reads the manifest and restores every namespace it lists.
func (m *Manager) LoadAll(ctx context.Context, defaultDimension int) (*vectorstore.Registry, error) {
	data, err := blobstore.ReadAll(ctx, m.store, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("persistence: read manifest: %w", err)
	}

	manifest, err := decodeManifest(data)
	if err != nil {
		return nil, err
	}

	return m.Load(ctx, manifest.namespaces(), defaultDimension)
}

func (m *Manager) savePartition(ctx context.Context, ns vectorstore.Namespace, p *vectorstore.Partition) error {
	base, err := blobBase(ns)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := p.Index().WriteTo(&buf); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	recBlob, err := encodeRecords(m.opts.Codec, m.opts.Compression, p.Records())
	if err != nil {
		return err
	}

	if err := m.opts.Controller.WaitIO(ctx, buf.Len()); err != nil {
		return err
	}
	if err := m.store.Put(ctx, base+indexExt, buf.Bytes()); err != nil {
		return fmt.Errorf("write index blob: %w", err)
	}

	if err := m.opts.Controller.WaitIO(ctx, len(recBlob)); err != nil {
		return err
	}
	if err := m.store.Put(ctx, base+recordsExt, recBlob); err != nil {
		return fmt.Errorf("write record blob: %w", err)
	}

	m.opts.Logger.DebugContext(ctx, "namespace saved",
		"namespace", ns.String(),
		"rows", p.Len(),
		"index_bytes", buf.Len(),
		"record_bytes", len(recBlob),
	)

	return nil
}

func (m *Manager) loadPartition(ctx context.Context, ns vectorstore.Namespace) (*vectorstore.Partition, error) {
	base, err := blobBase(ns)
	if err != nil {
		return nil, err
	}

	idxData, err := blobstore.ReadAll(ctx, m.store, base+indexExt)
	if err != nil {
		return nil, fmt.Errorf("read index blob: %w", err)
	}
	if err := m.opts.Controller.WaitIO(ctx, len(idxData)); err != nil {
		return nil, err
	}

	idx, err := flat.Read(bytes.NewReader(idxData))
	if err != nil {
		return nil, fmt.Errorf("%w: index blob: %s", ErrCorruptData, err)
	}

	recData, err := blobstore.ReadAll(ctx, m.store, base+recordsExt)
	if err != nil {
		return nil, fmt.Errorf("read record blob: %w", err)
	}
	if err := m.opts.Controller.WaitIO(ctx, len(recData)); err != nil {
		return nil, err
	}

	records, err := decodeRecords(recData)
	if err != nil {
		return nil, err
	}

	p, err := vectorstore.NewPartition(idx, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptData, err)
	}

	m.opts.Logger.DebugContext(ctx, "namespace loaded",
		"namespace", ns.String(),
		"rows", p.Len(),
	)

	return p, nil
}
