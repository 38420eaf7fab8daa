package model

// SourcemapNode is one node of the Rojo-style sourcemap tree describing
// the project's instance namespace. JSON tags follow the sourcemap schema
// emitted by the project tooling.
//
// The tree is decoded as pure data, mutated exactly once by the normalizer
// (canonical file paths, parent wiring) and read-only afterwards, which is
// what makes it safe to share across the per-thunk pipeline.
type SourcemapNode struct {
	Name      string           `json:"name"`
	ClassName string           `json:"className"`
	FilePaths []Path           `json:"filePaths,omitempty"`
	Children  []*SourcemapNode `json:"children,omitempty"`

	// Parent is wired by the normalizer; nil for the root. A plain
	// non-owning pointer keeps navigation cheap without ownership cycles
	// mattering under Go's garbage collector.
	Parent *SourcemapNode `json:"-"`
}

// FindChild returns the direct child with the given instance name, or nil.
// Child names are unique within a parent in a well-formed sourcemap.
func (n *SourcemapNode) FindChild(name string) *SourcemapNode {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}

	return nil
}

// ContainsFile reports whether path is one of the node's associated files.
// Meaningful only after normalization, when both sides are canonical.
func (n *SourcemapNode) ContainsFile(path Path) bool {
	for _, p := range n.FilePaths {
		if p == path {
			return true
		}
	}

	return false
}

// NodeChain is the ordered list of nodes from the tree root down to a
// specific node. It is resolution state: mutated only inside a single
// resolve call and discarded afterwards.
type NodeChain []*SourcemapNode

// Tail returns the chain's deepest node, or nil for an empty chain.
func (c NodeChain) Tail() *SourcemapNode {
	if len(c) == 0 {
		return nil
	}

	return c[len(c)-1]
}
