package vectorstore

// Namespace identifies an isolated partition within a store. The zero
// value is the default namespace, which always exists.
//
// Namespaces are comparable values and can be used as map keys.
type Namespace struct {
	name string
}

// Default is the namespace used when no explicit namespace is given.
var Default = Namespace{}

// Named returns the namespace with the given name. An empty name means
// the absence of a name and yields the default namespace.
func Named(name string) Namespace {
	return Namespace{name: name}
}

// IsDefault reports whether n is the default namespace.
func (n Namespace) IsDefault() bool {
	return n.name == ""
}

// Name returns the namespace name, or the empty string for the default
// namespace.
func (n Namespace) Name() string {
	return n.name
}

func (n Namespace) String() string {
	if n.name == "" {
		return "default"
	}

	return n.name
}
