package persistence

import (
	"errors"
	"strings"

	"github.com/m638-hue/SofttekLLMSDK/vectorstore"
)

// Blob name extensions for the two halves of a saved partition.
const (
	indexExt   = ".idx"
	recordsExt = ".rec"
)

// ErrInvalidNamespaceName rejects namespace names that would collide with
// other blob names or escape the store's flat keyspace.
var ErrInvalidNamespaceName = errors.New("persistence: invalid namespace name")

// blobBase returns the shared base name of a namespace's blob pair: the
// default namespace saves as "index", named namespaces as "<name>_index".
func blobBase(ns vectorstore.Namespace) (string, error) {
	if ns.IsDefault() {
		return "index", nil
	}

	name := ns.Name()
	if strings.ContainsAny(name, "/\\") || name == ManifestName {
		return "", ErrInvalidNamespaceName
	}

	return name + "_index", nil
}
