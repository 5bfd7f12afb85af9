package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/m638-hue/SofttekLLMSDK/vectorstore"
)

// ManifestName is the blob that records which namespaces a full save
// wrote. Commit-aware blob stores key their versioning off this name.
const ManifestName = "MANIFEST"

const manifestVersion = 1

// Manifest lists the namespaces of a complete snapshot.
type Manifest struct {
	Version    int             `json:"version"`
	Namespaces []manifestEntry `json:"namespaces"`
}

type manifestEntry struct {
	Name    string `json:"name,omitempty"`
	Default bool   `json:"default,omitempty"`
}

func newManifest(namespaces []vectorstore.Namespace) *Manifest {
	m := &Manifest{Version: manifestVersion}
	for _, ns := range namespaces {
		m.Namespaces = append(m.Namespaces, manifestEntry{
			Name:    ns.Name(),
			Default: ns.IsDefault(),
		})
	}
	return m
}

func (m *Manifest) namespaces() []vectorstore.Namespace {
	out := make([]vectorstore.Namespace, 0, len(m.Namespaces))
	for _, e := range m.Namespaces {
		if e.Default {
			out = append(out, vectorstore.Default)
			continue
		}
		out = append(out, vectorstore.Named(e.Name))
	}
	return out
}

func (m *Manifest) encode() ([]byte, error) {
	return json.Marshal(m)
}

func decodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %s", ErrCorruptData, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("%w: unsupported manifest version %d", ErrCorruptData, m.Version)
	}
	return &m, nil
}
